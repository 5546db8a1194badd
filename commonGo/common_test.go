package commonGo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvFile(t *testing.T) {
	t.Run("values from file should work", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		err := os.WriteFile(envFile, []byte("TEST_COMMON_SONAR_URL=http://sonar.local\n"), 0600)
		require.NoError(t, err)
		defer func() {
			_ = os.Unsetenv("TEST_COMMON_SONAR_URL")
		}()

		m := map[string]string{
			"TEST_COMMON_SONAR_URL": "",
		}
		err = ReadEnvFile(envFile, m)
		require.NoError(t, err)
		assert.Equal(t, "http://sonar.local", m["TEST_COMMON_SONAR_URL"])
	})
	t.Run("missing file should fall back to the environment", func(t *testing.T) {
		t.Setenv("TEST_COMMON_TOKEN", "token-value")

		m := map[string]string{
			"TEST_COMMON_TOKEN": "",
		}
		err := ReadEnvFile(filepath.Join(t.TempDir(), "missing.env"), m)
		require.NoError(t, err)
		assert.Equal(t, "token-value", m["TEST_COMMON_TOKEN"])
	})
	t.Run("missing value should error", func(t *testing.T) {
		m := map[string]string{
			"TEST_COMMON_NOT_SET_ANYWHERE": "",
		}
		err := ReadEnvFile(filepath.Join(t.TempDir(), "missing.env"), m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TEST_COMMON_NOT_SET_ANYWHERE is not set")
	})
}

func TestReadOptionalEnv(t *testing.T) {
	t.Setenv("TEST_COMMON_OPTIONAL", "value")

	assert.Equal(t, "value", ReadOptionalEnv("TEST_COMMON_OPTIONAL", "default"))
	assert.Equal(t, "default", ReadOptionalEnv("TEST_COMMON_OPTIONAL_MISSING", "default"))
}
