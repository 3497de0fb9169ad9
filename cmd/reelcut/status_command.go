package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcut/internal/deps"
	"reelcut/internal/preflight"
)

type statusCheckView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	OK       bool   `json:"ok"`
	Optional bool   `json:"optional"`
	Detail   string `json:"detail"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories, and the project database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var checks []statusCheckView
			for _, s := range deps.CheckBinaries(deps.Requirements(cfg)) {
				detail := s.Path
				if !s.Available {
					detail = s.Detail
				}
				if s.Description != "" {
					detail = fmt.Sprintf("%s (%s)", detail, strings.ToLower(s.Description))
				}
				checks = append(checks, statusCheckView{Name: s.Name, Kind: "binary", OK: s.Available, Optional: s.Optional, Detail: detail})
			}
			for _, r := range preflight.RunAll(cmd.Context(), cfg, logger) {
				checks = append(checks, statusCheckView{Name: r.Name, Kind: "path", OK: r.Passed, Optional: r.Optional, Detail: r.Detail})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, checks)
			}
			rows := make([][]string, 0, len(checks))
			for _, c := range checks {
				rows = append(rows, []string{c.Name, statusMark(c), c.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			return nil
		},
	}
}

func statusMark(c statusCheckView) string {
	switch {
	case c.OK:
		return "ok"
	case c.Optional:
		return "warn"
	default:
		return "FAIL"
	}
}
