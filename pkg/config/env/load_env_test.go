package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SORTBENCH_TEST_VALUE=from-file\n"), 0o644))

	t.Setenv("ENV_PATH", "")
	t.Setenv("SORTBENCH_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("SORTBENCH_TEST_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("SORTBENCH_TEST_VALUE"))
}

func TestLoadDotEnv_MissingDefaultIsIgnored(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadDotEnv_MissingExplicitPathFails(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, LoadDotEnv(".env"))
}
