package export

import (
	"reelcut/internal/config"
)

const (
	sampleRate    = 48000
	channelLayout = "stereo"
	pixelFormat   = "yuv420p"
)

// Settings are the output encoding parameters.
type Settings struct {
	Binary     string
	OutputDir  string
	Width      int
	Height     int
	FPS        int
	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
}

// SettingsFromConfig copies the export section.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Binary:     cfg.FFmpegBinary(),
		OutputDir:  cfg.Export.OutputDir,
		Width:      cfg.Export.Width,
		Height:     cfg.Export.Height,
		FPS:        cfg.Export.FPS,
		VideoCodec: cfg.Export.VideoCodec,
		AudioCodec: cfg.Export.AudioCodec,
		CRF:        cfg.Export.CRF,
		Preset:     cfg.Export.Preset,
	}
}
