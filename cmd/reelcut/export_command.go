package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/export"
)

type exportView struct {
	Output   string   `json:"output"`
	Duration float64  `json:"duration"`
	Inputs   []string `json:"inputs"`
	Graph    string   `json:"filter_complex"`
	Command  []string `json:"command"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the ffmpeg command that renders the project",
		Long: "Checks that the timeline has clips, then prints an ffmpeg invocation that\n" +
			"renders the project with the [export] settings. Nothing is executed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			session, err := ctx.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := export.Preflight(session); err != nil {
				return err
			}

			settings := export.SettingsFromConfig(cfg)
			target := strings.TrimSpace(output)
			if target == "" {
				target = export.DefaultOutput(settings, session.Meta().Name)
			} else if target, err = filepath.Abs(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			planner := export.NewPlanner(settings, cfg.EditorDefaults().TransitionDuration, logger)
			plan, err := planner.Plan(session, target)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				view := exportView{
					Output:   plan.Output,
					Duration: plan.Duration.Seconds(),
					Graph:    plan.Graph,
					Command:  append([]string{plan.Binary}, plan.Args...),
				}
				for _, in := range plan.Inputs {
					view.Inputs = append(view.Inputs, in.Path)
				}
				return writeJSON(cmd, view)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.CommandLine())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <export.output_dir>/<project name>.mp4)")
	return cmd
}
