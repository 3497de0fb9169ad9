package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Editor contains timeline editing defaults.
type Editor struct {
	DefaultImageSeconds   float64 `toml:"default_image_seconds"`
	DefaultOverlaySeconds float64 `toml:"default_overlay_seconds"`
	MinClipSeconds        float64 `toml:"min_clip_seconds"`
	TransitionSeconds     float64 `toml:"transition_seconds"`
}

// Playback contains preview playback settings.
type Playback struct {
	TickIntervalMillis int `toml:"tick_interval_ms"`
}

// Probe contains configuration for media inspection on import.
type Probe struct {
	FFprobeBinary string `toml:"ffprobe_binary"`
	Concurrency   int    `toml:"concurrency"`
}

// Export contains configuration for the final render command plan.
type Export struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	OutputDir    string `toml:"output_dir"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	FPS          int    `toml:"fps"`
	VideoCodec   string `toml:"video_codec"`
	AudioCodec   string `toml:"audio_codec"`
	CRF          int    `toml:"crf"`
	Preset       string `toml:"preset"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcut.
//
// Configuration sections by subsystem:
//   - Paths: project database and log directories
//   - Editor: default durations and the trim floor used by timeline edits
//   - Playback: preview tick cadence
//   - Probe: ffprobe binary and import fan-out
//   - Export: ffmpeg binary and output encoding parameters
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Editor   Editor   `toml:"editor"`
	Playback Playback `toml:"playback"`
	Probe    Probe    `toml:"probe"`
	Export   Export   `toml:"export"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the project database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "projects.db")
}

// LockPath returns the location of the single-writer lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "reelcut.lock")
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Probe.FFprobeBinary); v != "" {
		return v
	}
	return "ffprobe"
}

// FFmpegBinary returns the ffmpeg executable named in export plans.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Export.FFmpegBinary); v != "" {
		return v
	}
	return "ffmpeg"
}

// TickInterval returns the playback tick cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickIntervalMillis) * time.Millisecond
}

// EditorDefaults converts the editor section into durations.
func (c *Config) EditorDefaults() EditorDefaults {
	return EditorDefaults{
		ImageDuration:      seconds(c.Editor.DefaultImageSeconds),
		OverlayDuration:    seconds(c.Editor.DefaultOverlaySeconds),
		MinClipDuration:    seconds(c.Editor.MinClipSeconds),
		TransitionDuration: seconds(c.Editor.TransitionSeconds),
	}
}

// EditorDefaults carries the editor section as durations.
type EditorDefaults struct {
	ImageDuration      time.Duration
	OverlayDuration    time.Duration
	MinClipDuration    time.Duration
	TransitionDuration time.Duration
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second)).Round(time.Microsecond)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
