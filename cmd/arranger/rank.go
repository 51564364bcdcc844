package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Arranger/internal/scoring"
)

var rankCmd = &cobra.Command{
	Use:   "rank [file]",
	Short: "Rank a JSON array of tasks read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, _ := cmd.Flags().GetBool("trace")
		asJSON, _ := cmd.Flags().GetBool("json")

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		level := slog.LevelInfo
		if trace {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return runRank(in, cmd.OutOrStdout(), trace, asJSON, logger)
	},
}

func init() {
	rankCmd.Flags().Bool("trace", false, "log how each task was scored")
	rankCmd.Flags().Bool("json", false, "print the ranking as JSON")
}

func runRank(in io.Reader, out io.Writer, trace, asJSON bool, logger *slog.Logger) error {
	var tasks []scoring.Task
	if err := json.NewDecoder(in).Decode(&tasks); err != nil {
		return fmt.Errorf("decode tasks: %w", err)
	}

	c := scoring.NewClassifier(scoring.Options{Trace: trace, Logger: logger})
	ranked, err := c.ClassifyAndRank(tasks)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRATING\tTYPE\tDEADLINE\tIMPORTANCE\tDIFFICULTY\tDESCRIPTION")
	for i, st := range ranked {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, st.Rating, st.Type, st.Deadline, st.Importance, st.Difficulty, st.Description)
	}
	return tw.Flush()
}
