package store

import (
	"fmt"
	"strings"
	"time"
)

// formatTimestampIndexKey creates a recency index key with a sortable timestamp.
// We use a custom format with zero-padded nanoseconds to ensure lexicographic
// sorting matches chronological order.
// Format: {prefix}{YYYY-MM-DDTHH:MM:SS.NNNNNNNNNZ}:{entityID}.
// Example: idx:videos:created_at:2026-01-15T10:30:00.123456789Z:vid-abc123.
func formatTimestampIndexKey(prefix string, timestamp time.Time, entityID string) []byte {
	// Fixed-width nanoseconds (always 9 digits) keep keys the same length,
	// so reverse iteration yields strict newest-first order.
	timestampStr := timestamp.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", timestamp.Nanosecond()) + "Z"
	return fmt.Appendf(nil, "%s%s:%s", prefix, timestampStr, entityID)
}

// parseTimestampIndexKey extracts the entity ID from a recency index key.
func parseTimestampIndexKey(key []byte, expectedPrefix string) (string, error) {
	keyStr := string(key)
	if !strings.HasPrefix(keyStr, expectedPrefix) {
		return "", fmt.Errorf("invalid timestamp key: missing prefix %s", expectedPrefix)
	}

	remainder := strings.TrimPrefix(keyStr, expectedPrefix)

	// Timestamp format is fixed width: 2006-01-02T15:04:05.NNNNNNNNNZ = 30
	// characters. This avoids splitting on : which appears in the timestamp.
	const timestampLen = 30
	if len(remainder) < timestampLen+2 {
		return "", fmt.Errorf("invalid timestamp key format: %s", keyStr)
	}

	return remainder[timestampLen+1:], nil
}
