package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glossa/internal/deps"
	"glossa/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and local prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			checks := preflight.RunAll(cmd.Context(), cfg)
			if jsonOutput {
				return writeJSON(cmd, struct {
					Dependencies []deps.Status      `json:"dependencies"`
					Checks       []preflight.Result `json:"checks"`
				}{statuses, checks})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDepsTable(statuses))
			colorize := shouldColorize(out)
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies unavailable", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	return cmd
}

func renderDepsTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "missing"
		if s.Available {
			state = "ok"
		}
		detail := s.Path
		if detail == "" {
			detail = s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, yesNo(!s.Optional), state, detail})
	}
	return renderTable([]string{"Dependency", "Command", "Required", "State", "Detail"}, rows, nil)
}
