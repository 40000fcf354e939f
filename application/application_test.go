package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loggingYAML = `logging:
  emitter:
    level: debug
    stdout: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunWithoutConfigFile(t *testing.T) {
	// 默认路径下没有配置文件时应当可以裸跑。
	t.Chdir(t.TempDir())

	app := New()
	assert.NoError(t, app.Run())
	assert.Nil(t, app.Config())

	// 未知名称回退到全局 Logger。
	assert.NotNil(t, app.Logger("unknown"))
}

func TestRunLoadsConfigFromEnv(t *testing.T) {
	path := writeConfig(t, loggingYAML)
	t.Setenv("PG_CONFIG_FILE_PATH", path)

	app := New()
	assert.NoError(t, app.Run())
	assert.NotNil(t, app.Config())
	assert.NotNil(t, app.Logger("emitter"))
}

func TestRunFailsOnMissingExplicitConfig(t *testing.T) {
	t.Setenv("PG_CONFIG_FILE_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	app := New()
	assert.Error(t, app.Run())
}

func TestConfigFlagOverride(t *testing.T) {
	path := writeConfig(t, loggingYAML)

	oldArgs := os.Args
	os.Args = []string{"packet-garden", "--config=" + path}
	defer func() { os.Args = oldArgs }()

	app := New()
	assert.NoError(t, app.Run())
	assert.NotNil(t, app.Config())
}

func TestConfigFlagMissingValue(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"packet-garden", "--config"}
	defer func() { os.Args = oldArgs }()

	app := New()
	assert.Error(t, app.Run())
}
