package dualrender

import (
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration read from strings such as "1s" or "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type WindowConfig struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	Resizable bool   `toml:"resizable"`
}

type VulkanConfig struct {
	// Validation enables VK_LAYER_KHRONOS_validation and routes its
	// reports to the logger.
	Validation bool `toml:"validation"`
	// PresentMode is one of "fifo", "mailbox" or "immediate". Unsupported
	// modes fall back to fifo.
	PresentMode   string   `toml:"present_mode"`
	FenceTimeout  Duration `toml:"fence_timeout"`
	UploadTimeout Duration `toml:"upload_timeout"`
	ShaderDir     string   `toml:"shader_dir"`
	DemoTriangle  bool     `toml:"demo_triangle"`
}

type OpenGLConfig struct {
	ShaderDir string `toml:"shader_dir"`
	VSync     bool   `toml:"vsync"`
}

type CameraConfig struct {
	FOV      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the full renderer configuration, usually read from TOML.
type Config struct {
	Backend Backend      `toml:"backend"`
	AppName string       `toml:"app_name"`
	Window  WindowConfig `toml:"window"`
	Vulkan  VulkanConfig `toml:"vulkan"`
	OpenGL  OpenGLConfig `toml:"opengl"`
	Camera  CameraConfig `toml:"camera"`
	Log     LogConfig    `toml:"log"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendVulkan,
		AppName: "dualrender",
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "dualrender",
			Resizable: true,
		},
		Vulkan: VulkanConfig{
			PresentMode:   "fifo",
			FenceTimeout:  Duration(time.Second),
			UploadTimeout: Duration(10 * time.Second),
			ShaderDir:     "shaders",
			DemoTriangle:  true,
		},
		OpenGL: OpenGLConfig{
			ShaderDir: "shaders",
			VSync:     true,
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{0, 0, 3},
		},
		Log: LogConfig{Level: "info"},
	}
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads path. A missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		Logger().Debug("config file not found, using defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Vulkan.PresentMode {
	case "fifo", "mailbox", "immediate":
	default:
		return errors.Newf("unknown present mode %q", c.Vulkan.PresentMode)
	}
	if c.Vulkan.FenceTimeout <= 0 {
		return errors.New("vulkan fence_timeout must be positive")
	}
	if c.Vulkan.UploadTimeout <= 0 {
		return errors.New("vulkan upload_timeout must be positive")
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return errors.Newf("camera fov %v out of range", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Newf("camera clip planes near=%v far=%v invalid", c.Camera.Near, c.Camera.Far)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// NewCamera builds a camera from the [camera] section.
func (c *Config) NewCamera() *Camera {
	cam := NewCamera(c.Camera.FOV, c.Camera.Near, c.Camera.Far, mgl32.Vec3(c.Camera.Position))
	cam.SetViewport(c.Window.Width, c.Window.Height)
	return cam
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.Wrapf(err, "log level %q", l.Level)
	}
	return lvl, nil
}
