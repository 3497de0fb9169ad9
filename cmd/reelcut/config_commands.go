package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or scaffold editor settings",
	}
	configCmd.AddCommand(newConfigValidateCommand(), newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented reelcut.toml with the editor defaults",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				_, err := os.Stat(target)
				switch {
				case err == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("inspect %s: %w", target, err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Editor settings written to %s\n", target)
			fmt.Fprintf(out, "Check them with: reelcut config validate --config %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Where to write the settings file (defaults to the user config location)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing settings file")
	return cmd
}

func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve --path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate user config: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the settings and show what the editor will use",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFlag, _ := cmd.Flags().GetString("config")
			cfg, path, exists, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Settings: %s\n", path)
			} else {
				fmt.Fprintf(out, "Settings: built-in defaults (no file at %s)\n", path)
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settingsRows(cfg), nil))
			fmt.Fprintln(out, "Settings OK")
			return nil
		},
	}
}

func settingsRows(cfg *config.Config) [][]string {
	editor := cfg.EditorDefaults()
	return [][]string{
		{"project database", cfg.DatabasePath()},
		{"log directory", cfg.Paths.LogDir},
		{"image clip length", formatSeconds(editor.ImageDuration)},
		{"overlay length", formatSeconds(editor.OverlayDuration)},
		{"minimum clip length", formatSeconds(editor.MinClipDuration)},
		{"transition length", formatSeconds(editor.TransitionDuration)},
		{"playback tick", cfg.TickInterval().String()},
		{"ffprobe", fmt.Sprintf("%s (%d workers)", cfg.FFprobeBinary(), cfg.Probe.Concurrency)},
		{"ffmpeg", cfg.FFmpegBinary()},
		{"export frame", fmt.Sprintf("%dx%d @ %d fps", cfg.Export.Width, cfg.Export.Height, cfg.Export.FPS)},
		{"export codecs", cfg.Export.VideoCodec + " / " + cfg.Export.AudioCodec + ", crf " + strconv.Itoa(cfg.Export.CRF) + ", " + cfg.Export.Preset},
		{"export directory", cfg.Export.OutputDir},
	}
}
