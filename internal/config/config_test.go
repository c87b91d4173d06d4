package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		t.Setenv("TEST_KEY", "env-value")
		got := getConfigValue("flag-value", "TEST_KEY", "default")
		assert.Equal(t, "flag-value", got)
	})

	t.Run("env used when flag empty", func(t *testing.T) {
		t.Setenv("TEST_KEY", "env-value")
		got := getConfigValue("", "TEST_KEY", "default")
		assert.Equal(t, "env-value", got)
	})

	t.Run("default when flag and env empty", func(t *testing.T) {
		got := getConfigValue("", "UNSET_TEST_KEY", "default")
		assert.Equal(t, "default", got)
	})
}

func TestGetInt64ConfigValue(t *testing.T) {
	t.Run("parses env value", func(t *testing.T) {
		t.Setenv("TEST_INT", "1048576")
		got := getInt64ConfigValue("", "TEST_INT", 42)
		assert.Equal(t, int64(1048576), got)
	})

	t.Run("default on unparsable value", func(t *testing.T) {
		t.Setenv("TEST_INT", "not-a-number")
		got := getInt64ConfigValue("", "TEST_INT", 42)
		assert.Equal(t, int64(42), got)
	})

	t.Run("default when unset", func(t *testing.T) {
		got := getInt64ConfigValue("", "UNSET_TEST_INT", 42)
		assert.Equal(t, int64(42), got)
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/srv/default")
		require.NoError(t, err)
		assert.Equal(t, "/srv/default", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		got, err := expandPath("~/clips", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, "clips"), got)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.True(t, strings.HasSuffix(got, "/data"))
	})

	t.Run("absolute is cleaned", func(t *testing.T) {
		got, err := expandPath("/srv//clips/../clips", "")
		require.NoError(t, err)
		assert.Equal(t, "/srv/clips", got)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("loads values and skips comments", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		content := "# comment line\nENVFILE_TEST_A=hello\n\nENVFILE_TEST_B=\"quoted\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("ENVFILE_TEST_A", "")
		t.Setenv("ENVFILE_TEST_B", "")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "hello", os.Getenv("ENVFILE_TEST_A"))
		assert.Equal(t, "quoted", os.Getenv("ENVFILE_TEST_B"))
	})

	t.Run("existing env vars win", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("ENVFILE_TEST_C=from-file\n"), 0o600))

		t.Setenv("ENVFILE_TEST_C", "from-env")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "from-env", os.Getenv("ENVFILE_TEST_C"))
	})

	t.Run("invalid line errors", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("not a valid line\n"), 0o600))

		err := loadEnvFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file errors", func(t *testing.T) {
		err := loadEnvFile("/nonexistent/.env")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Storage: StorageConfig{
				DataPath:    "/srv/clipstream/data",
				UploadsPath: "/srv/clipstream/uploads",
			},
			Upload: UploadConfig{
				MaxVideoBytes:     defaultMaxVideoBytes,
				MaxThumbnailBytes: defaultMaxThumbnailBytes,
			},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "banana"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DataPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero upload limit", func(t *testing.T) {
		cfg := valid()
		cfg.Upload.MaxVideoBytes = 0
		assert.Error(t, cfg.Validate())
	})
}
