package store

import "sync"

// Collection key prefixes. Documents live at {prefix}{id}; index keys are
// built from the idx: prefixes and carry only the referenced document ID.
const (
	videoPrefix            = "video:"
	videoByCreatedPrefix   = "idx:videos:created_at:" // For newest-first feed listing
	videoByUserPrefix      = "idx:videos:user:"       // For channel video listing
	commentPrefix          = "comment:"
	commentByVideoPrefix   = "idx:comments:video:" // For per-video comment listing
	likePrefix             = "like:"               // like:{videoID}:{userID}, one row per pair
	subscriptionPrefix     = "sub:"                // sub:{channelID}:{subscriberID}, one row per pair
)

// keyPool provides reusable byte slices for building database keys.
// This reduces allocations on the hot path of toggle and count operations.
var keyPool = sync.Pool{
	New: func() any {
		// 256 bytes covers every key shape: prefix, two NanoIDs, separators.
		return make([]byte, 0, 256)
	},
}

// buildPairKey constructs a composite key {prefix}{a}:{b} using a pooled
// buffer. The returned slice is valid until releaseKey is called; callers
// MUST call releaseKey when done with the key.
func buildPairKey(prefix, a, b string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0] // Reset length, keep capacity
	buf = append(buf, prefix...)
	buf = append(buf, a...)
	buf = append(buf, ':')
	buf = append(buf, b...)
	return buf
}

// buildPrefix constructs a scan prefix {prefix}{a}: using a pooled buffer.
// Callers MUST call releaseKey when done with it.
func buildPrefix(prefix, a string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, a...)
	buf = append(buf, ':')
	return buf
}

// releaseKey returns a key buffer to the pool for reuse.
// After calling this, the key slice must not be used.
func releaseKey(key []byte) {
	// Avoids keeping oversized buffers in the pool
	if cap(key) <= 512 {
		keyPool.Put(key[:0])
	}
}
