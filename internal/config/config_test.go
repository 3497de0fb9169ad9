package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelcut/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REELCUT_DATA_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "reelcut")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "projects.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.TickInterval() != 33*time.Millisecond {
		t.Fatalf("unexpected tick interval: %v", cfg.TickInterval())
	}

	defaults := cfg.EditorDefaults()
	if defaults.ImageDuration != 5*time.Second {
		t.Fatalf("unexpected image duration: %v", defaults.ImageDuration)
	}
	if defaults.OverlayDuration != 5*time.Second {
		t.Fatalf("unexpected overlay duration: %v", defaults.OverlayDuration)
	}
	if defaults.MinClipDuration != 100*time.Millisecond {
		t.Fatalf("unexpected min clip duration: %v", defaults.MinClipDuration)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelcut.toml")

	type payload struct {
		Editor struct {
			MinClipSeconds    float64 `toml:"min_clip_seconds"`
			TransitionSeconds float64 `toml:"transition_seconds"`
		} `toml:"editor"`
		Export struct {
			Width  int    `toml:"width"`
			Preset string `toml:"preset"`
		} `toml:"export"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Editor.MinClipSeconds = 0.25
	custom.Editor.TransitionSeconds = 1
	custom.Export.Width = 1280
	custom.Export.Preset = " Fast "
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.EditorDefaults().MinClipDuration != 250*time.Millisecond {
		t.Fatalf("expected min clip override, got %v", cfg.EditorDefaults().MinClipDuration)
	}
	if cfg.Export.Width != 1280 {
		t.Fatalf("expected width override, got %d", cfg.Export.Width)
	}
	if cfg.Export.Height != config.Default().Export.Height {
		t.Fatalf("expected default height to survive partial file, got %d", cfg.Export.Height)
	}
	if cfg.Export.Preset != "fast" {
		t.Fatalf("expected normalized preset, got %q", cfg.Export.Preset)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestDataDirEnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelcut.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\ndata_dir = \"/from/file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	override := filepath.Join(tempDir, "env-data")
	t.Setenv("REELCUT_DATA_DIR", override)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error when config path is a directory")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "min_clip_seconds") {
		t.Fatalf("sample config missing editor section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Editor.DefaultOverlaySeconds != 5 {
		t.Fatalf("unexpected sample overlay seconds: %v", cfg.Editor.DefaultOverlaySeconds)
	}
	if !strings.Contains(cfg.Paths.DataDir, "reelcut") {
		t.Fatalf("expected data dir to contain reelcut, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero min clip", func(c *config.Config) { c.Editor.MinClipSeconds = 0 }},
		{"image shorter than floor", func(c *config.Config) { c.Editor.DefaultImageSeconds = 0.05 }},
		{"negative overlay", func(c *config.Config) { c.Editor.DefaultOverlaySeconds = -1 }},
		{"negative transition", func(c *config.Config) { c.Editor.TransitionSeconds = -0.5 }},
		{"zero tick", func(c *config.Config) { c.Playback.TickIntervalMillis = 0 }},
		{"odd width", func(c *config.Config) { c.Export.Width = 1279 }},
		{"zero fps", func(c *config.Config) { c.Export.FPS = 0 }},
		{"crf range", func(c *config.Config) { c.Export.CRF = 60 }},
		{"bad preset", func(c *config.Config) { c.Export.Preset = "ludicrous" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"probe fan-out", func(c *config.Config) { c.Probe.Concurrency = 1000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
