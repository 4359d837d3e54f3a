package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	cfg, err := Load(path)
	require.NoError(t, err)

	all := cfg.GetAllConfig()
	assert.Equal(t, 0, all.Verbose.Level)
	assert.False(t, all.Progress.Enabled)
	assert.Equal(t, int64(64<<20), all.Progress.MinSize)
	assert.Equal(t, 2<<20, all.Digest.Buffer)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "missing config must not be created")
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `[verbose]
level = 2

[progress]
enabled = true
min_size = 16M

[digest]
buffer = 512k
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())

	all := cfg.GetAllConfig()
	assert.Equal(t, 2, all.Verbose.Level)
	assert.True(t, all.Progress.Enabled)
	assert.Equal(t, int64(16<<20), all.Progress.MinSize)
	assert.Equal(t, 512<<10, all.Digest.Buffer)
}

func TestConfigBadValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := "[verbose]\nlevel = loud\n[progress]\nmin_size = lots\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.GetVerboseConfig().Level)
	assert.Equal(t, int64(64<<20), cfg.GetProgressConfig().MinSize)
}

func TestConfigOverrides(t *testing.T) {
	cfg := Default()

	err := cfg.ApplyOverrides([]string{"level:1", " progress:true ", "min_size:1M", "buffer:64k", ""})
	require.NoError(t, err)

	all := cfg.GetAllConfig()
	assert.Equal(t, 1, all.Verbose.Level)
	assert.True(t, all.Progress.Enabled)
	assert.Equal(t, int64(1<<20), all.Progress.MinSize)
	assert.Equal(t, 64<<10, all.Digest.Buffer)
}

func TestConfigOverrideErrors(t *testing.T) {
	for _, override := range []string{"level", "level:x", "progress:maybe", "min_size:-1", "buffer:2Q", "colour:red"} {
		assert.Error(t, Default().ApplyOverrides([]string{override}), override)
	}
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/gcidsum.ini")
	assert.Equal(t, "/etc/gcidsum.ini", DefaultPath())
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"2k", 2048, false},
		{"2M", 2 << 20, false},
		{"1.5K", 1536, false},
		{"1GB", 1 << 30, false},
		{"", 0, true},
		{"M", 0, true},
		{"0", 0, true},
		{"3X", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHumanSize(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
