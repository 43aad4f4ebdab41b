package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("api.timeout = %v", cfg.API.Timeout)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window size = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Viewer.TickRate != 60 {
		t.Errorf("viewer.tick_rate = %f", cfg.Viewer.TickRate)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub360.yaml")
	content := `
api:
  base_url: https://tours.example.com
window:
  title: Showroom
  width: 1920
  height: 1080
viewer:
  tick_rate: 120
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.API.BaseURL != "https://tours.example.com" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.Window.Title != "Showroom" || cfg.Window.Width != 1920 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Viewer.TickRate != 120 {
		t.Errorf("viewer.tick_rate = %f", cfg.Viewer.TickRate)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Viewer.SensorSmoothing != 0.15 {
		t.Errorf("viewer.sensor_smoothing = %f, want default", cfg.Viewer.SensorSmoothing)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub360.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: https://file.example.com\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("HUB360_API_BASE_URL", "https://env.example.com")
	t.Setenv("HUB360_LOGGING_LEVEL", "warn")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("api.base_url = %q, want the env value", cfg.API.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want warn", cfg.Logging.Level)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad url", "api:\n  base_url: not-a-url\n"},
		{"zero width", "window:\n  width: 0\n"},
		{"smoothing above one", "viewer:\n  sensor_smoothing: 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hub360.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HUB360_API_BASE_URL", "api.base_url"},
		{"HUB360_LOGGING_LEVEL", "logging.level"},
		{"HUB360_VIEWER_TICK_RATE", "viewer.tick_rate"},
		{"HUB360_WINDOW_WIDTH", "window.width"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
