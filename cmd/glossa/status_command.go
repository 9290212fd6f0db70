package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"glossa/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show a job, or the daemon when no job is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				job, err := client.Job(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, job)
				}
				renderJob(out, job, shouldColorize(out))
				return nil
			}

			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}
			renderDaemonStatus(out, status, shouldColorize(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	return cmd
}

func renderDaemonStatus(w io.Writer, status api.DaemonStatus, colorize bool) {
	daemonKind, daemonText := statusError, "Not running"
	if status.Running {
		daemonKind, daemonText = statusOK, fmt.Sprintf("Running (pid %d)", status.PID)
	}
	fmt.Fprintln(w, renderStatusLine("Daemon", daemonKind, daemonText, colorize))
	fmt.Fprintln(w, renderStatusLine("Runs", statusInfo, status.RunsDir, colorize))
	fmt.Fprintln(w, renderStatusLine("Jobs", statusInfo, strconv.Itoa(status.TotalJobs), colorize))
	for _, health := range status.StageHealth {
		kind, detail := statusOK, "ready"
		if !health.Ready {
			kind, detail = statusWarn, health.Detail
		}
		fmt.Fprintln(w, renderStatusLine(health.Name, kind, detail, colorize))
	}

	if len(status.Jobs) == 0 {
		return
	}
	names := make([]string, 0, len(status.Jobs))
	for name := range status.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{displayStatus(name), strconv.Itoa(status.Jobs[name])})
	}
	fmt.Fprintln(w, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs known to the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			jobs, err := client.Jobs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, jobs)
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs")
				return nil
			}
			fmt.Fprintln(out, renderJobsTable(jobs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	return cmd
}

func renderJobsTable(jobs []api.Job) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		current := "-"
		for _, step := range job.Steps {
			if step.Status == "running" || step.Status == "error" {
				current = step.Label
				break
			}
		}
		rows = append(rows, []string{job.ID, displayStatus(job.Status), strconv.Itoa(job.Progress) + "%", current, job.UpdatedAt})
	}
	return renderTable(
		[]string{"ID", "Status", "Progress", "Step", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
