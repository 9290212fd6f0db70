package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecognizeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recognize <image>",
		Short: "Classify a fingerspelled hand shape from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			result, err := client.Recognize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			rows := make([][]string, 0, len(result.Top3))
			for i, rank := range result.Top3 {
				rows = append(rows, []string{strconv.Itoa(i + 1), rank.Label, strconv.FormatFloat(rank.Score, 'f', 3, 64)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Label: %s (%.1f%%)\n", result.Label, result.Confidence*100)
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"#", "Label", "Score"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	return cmd
}
