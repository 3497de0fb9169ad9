package config

const (
	defaultDataDir            = "~/.local/share/reelcut"
	defaultLogDir             = "~/.local/share/reelcut/logs"
	defaultExportDir          = "~/Videos/reelcut"
	defaultImageSeconds       = 5.0
	defaultOverlaySeconds     = 5.0
	defaultMinClipSeconds     = 0.1
	defaultTransitionSeconds  = 0.5
	defaultTickIntervalMillis = 33
	defaultProbeConcurrency   = 4
	defaultExportWidth        = 1920
	defaultExportHeight       = 1080
	defaultExportFPS          = 30
	defaultExportVideoCodec   = "libx264"
	defaultExportAudioCodec   = "aac"
	defaultExportCRF          = 23
	defaultExportPreset       = "medium"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxTickIntervalMillis     = 1000
	maxProbeConcurrency       = 32
	maxMinClipSeconds         = 5.0
	maxTransitionSeconds      = 10.0
	maxDefaultDurationSeconds = 3600.0
	dataDirEnv                = "REELCUT_DATA_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Editor: Editor{
			DefaultImageSeconds:   defaultImageSeconds,
			DefaultOverlaySeconds: defaultOverlaySeconds,
			MinClipSeconds:        defaultMinClipSeconds,
			TransitionSeconds:     defaultTransitionSeconds,
		},
		Playback: Playback{
			TickIntervalMillis: defaultTickIntervalMillis,
		},
		Probe: Probe{
			FFprobeBinary: "ffprobe",
			Concurrency:   defaultProbeConcurrency,
		},
		Export: Export{
			FFmpegBinary: "ffmpeg",
			OutputDir:    defaultExportDir,
			Width:        defaultExportWidth,
			Height:       defaultExportHeight,
			FPS:          defaultExportFPS,
			VideoCodec:   defaultExportVideoCodec,
			AudioCodec:   defaultExportAudioCodec,
			CRF:          defaultExportCRF,
			Preset:       defaultExportPreset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
