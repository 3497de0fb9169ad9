package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateEditor() error {
	if c.Editor.MinClipSeconds <= 0 || c.Editor.MinClipSeconds > maxMinClipSeconds {
		return fmt.Errorf("editor.min_clip_seconds must be in (0, %g]", maxMinClipSeconds)
	}
	if err := ensureDurationRange(map[string]float64{
		"editor.default_image_seconds":   c.Editor.DefaultImageSeconds,
		"editor.default_overlay_seconds": c.Editor.DefaultOverlaySeconds,
	}); err != nil {
		return err
	}
	if c.Editor.DefaultImageSeconds < c.Editor.MinClipSeconds {
		return errors.New("editor.default_image_seconds must not be shorter than editor.min_clip_seconds")
	}
	if c.Editor.TransitionSeconds < 0 || c.Editor.TransitionSeconds > maxTransitionSeconds {
		return fmt.Errorf("editor.transition_seconds must be between 0 and %g", maxTransitionSeconds)
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.TickIntervalMillis <= 0 || c.Playback.TickIntervalMillis > maxTickIntervalMillis {
		return fmt.Errorf("playback.tick_interval_ms must be between 1 and %d", maxTickIntervalMillis)
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.Concurrency > maxProbeConcurrency {
		return fmt.Errorf("probe.concurrency must not exceed %d", maxProbeConcurrency)
	}
	return nil
}

func (c *Config) validateExport() error {
	if err := ensurePositiveMap(map[string]int{
		"export.width":  c.Export.Width,
		"export.height": c.Export.Height,
		"export.fps":    c.Export.FPS,
	}); err != nil {
		return err
	}
	if c.Export.Width%2 != 0 || c.Export.Height%2 != 0 {
		return errors.New("export.width and export.height must be even")
	}
	if c.Export.CRF < 0 || c.Export.CRF > 51 {
		return errors.New("export.crf must be between 0 and 51")
	}
	switch c.Export.Preset {
	case "ultrafast", "superfast", "veryfast", "faster", "fast", "medium", "slow", "slower", "veryslow":
	default:
		return fmt.Errorf("export.preset: unsupported value %q", c.Export.Preset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureDurationRange(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 || value > maxDefaultDurationSeconds {
			return fmt.Errorf("%s must be in (0, %g]", key, maxDefaultDurationSeconds)
		}
	}
	return nil
}
