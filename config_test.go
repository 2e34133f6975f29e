package dualrender

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
backend = "opengl"
app_name = "demo"

[window]
width = 1024
height = 768

[vulkan]
present_mode = "mailbox"
fence_timeout = "250ms"

[camera]
fov = 60
position = [1.0, 2.0, 3.0]

[log]
level = "debug"
`))
	require.NoError(t, err)

	assert.Equal(t, BackendOpenGL, cfg.Backend)
	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, "dualrender", cfg.Window.Title, "unset keys keep defaults")
	assert.Equal(t, "mailbox", cfg.Vulkan.PresentMode)
	assert.Equal(t, 250*time.Millisecond, cfg.Vulkan.FenceTimeout.Std())
	assert.Equal(t, 10*time.Second, cfg.Vulkan.UploadTimeout.Std())
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"backend", `backend = "directx"`},
		{"present mode", "[vulkan]\npresent_mode = \"vsync\""},
		{"duration", "[vulkan]\nfence_timeout = \"soon\""},
		{"zero width", "[window]\nwidth = 0"},
		{"fov", "[camera]\nfov = 180"},
		{"clip planes", "[camera]\nnear = 10.0\nfar = 1.0"},
		{"log level", "[log]\nlevel = \"loud\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"x\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Window.Title)
}

func TestConfigNewCamera(t *testing.T) {
	cfg := DefaultConfig()
	cam := cfg.NewCamera()
	assert.Equal(t, cfg.Camera.FOV, cam.FOV)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)
}
