package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"glossa/internal/api"
	"glossa/internal/daemonctl"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var opts daemonctl.SubmitOptions
	var preferCaptions bool
	var maxDuration int
	var wait bool
	var interval time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a translation job",
		Example: `  glossa submit --mode text --text "hello world"
  glossa submit --mode video --file talk.mp4 --wait
  glossa submit --mode youtube --url https://youtu.be/abc123 --prefer-captions=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("prefer-captions") {
				opts.PreferCaptions = &preferCaptions
			}
			if cmd.Flags().Changed("max-duration") {
				opts.MaxDurationSec = &maxDuration
			}

			job, err := client.Submit(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !wait {
				if jsonOutput {
					return writeJSON(cmd, job)
				}
				fmt.Fprintf(out, "Submitted job %s\n", job.ID)
				return nil
			}

			colorize := shouldColorize(out)
			last := ""
			job, err = client.WaitForJob(cmd.Context(), job.ID, interval, func(update api.Job) {
				if jsonOutput {
					return
				}
				line := fmt.Sprintf("%s %d%%", displayStatus(update.Status), update.Progress)
				if line == last {
					return
				}
				last = line
				fmt.Fprintln(out, renderStatusLine("Job "+update.ID, jobStatusKind(update.Status), line, colorize))
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, job)
			}
			renderJob(out, job, colorize)
			if job.Status == "failed" {
				return fmt.Errorf("job %s failed", job.ID)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Mode, "mode", "text", "Input mode: text, audio, video, or youtube")
	flags.StringVar(&opts.Text, "text", "", "Text to translate (text mode)")
	flags.StringVarP(&opts.FilePath, "file", "f", "", "Audio or video file to upload")
	flags.StringVar(&opts.YouTubeURL, "url", "", "YouTube URL (youtube mode)")
	flags.BoolVar(&preferCaptions, "prefer-captions", true, "Use published captions when available")
	flags.StringVar(&opts.CaptionLanguage, "caption-language", "", "Preferred caption language")
	flags.IntVar(&maxDuration, "max-duration", 0, "Maximum YouTube duration in seconds")
	flags.StringVar(&opts.SpokenLanguage, "spoken", "", "Spoken language code")
	flags.StringVar(&opts.SignedLanguage, "signed", "", "Signed language code")
	flags.StringVar(&opts.Glosser, "glosser", "", "Glosser name")
	flags.StringVar(&opts.Avatar, "avatar", "", "Avatar style for the rendered video")
	flags.StringVar(&opts.Lexicon, "lexicon", "", "Lexicon directory (relative paths resolve under paths.lexicon_dir)")
	flags.BoolVarP(&wait, "wait", "w", false, "Poll until the job finishes")
	flags.DurationVar(&interval, "interval", time.Second, "Polling interval with --wait")
	flags.BoolVar(&jsonOutput, "json", false, "Print the job as JSON")
	return cmd
}
