package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anima.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[loader]
platform = "cooperative"
poll_interval_ms = 250
base_url = "http://localhost:8080/static/"

[assets]
dir = "content"
watch = true

[logging]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Loader.Platform != PlatformCooperative {
		t.Errorf("platform = %q", cfg.Loader.Platform)
	}
	if cfg.Loader.PollInterval() != 250*time.Millisecond {
		t.Errorf("poll interval = %s", cfg.Loader.PollInterval())
	}
	if cfg.Loader.BaseURL != "http://localhost:8080/static/" {
		t.Errorf("base url = %q", cfg.Loader.BaseURL)
	}
	if cfg.Assets.Dir != "content" || !cfg.Assets.Watch {
		t.Errorf("assets = %+v", cfg.Assets)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[loader]\nroot = \"data\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := DefaultConfig()
	want.Loader.Root = "data"
	if *cfg != *want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ANIMA_LOADER_POLL_INTERVAL_MS", "40")
	t.Setenv("ANIMA_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(writeConfig(t, "[loader]\npoll_interval_ms = 500\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Loader.PollIntervalMS != 40 {
		t.Errorf("env did not override poll interval: %d", cfg.Loader.PollIntervalMS)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env did not override level: %q", cfg.Logging.Level)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"platform": "[loader]\nplatform = \"threads\"\n",
		"interval": "[loader]\npoll_interval_ms = 0\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	_, err := LoadConfig(writeConfig(t, "[loader]\nplatform = \"threads\"\n"))
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestEncodeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.Platform = PlatformNative
	cfg.Assets.Watch = true

	data, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatalf("EncodeConfig failed: %v", err)
	}

	var decoded Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("encoded config is not valid toml: %v\n%s", err, data)
	}
	if decoded != *cfg {
		t.Fatalf("got %+v, want %+v", decoded, *cfg)
	}

	loaded, err := LoadConfig(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("LoadConfig of encoded config failed: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("got %+v, want %+v", *loaded, *cfg)
	}
}
