package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/careerai/careerai/internal/analysis"
	"github.com/careerai/careerai/pkg/models"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize a raw AI analysis reply into the canonical result shape",
		Long: `normalize reads a JSON analysis reply from a file, or stdin when no file
or "-" is given, and prints the normalized result. Input that is not JSON
normalizes to the empty result rather than failing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			result := analysis.NormalizeJSON(data)
			if summary {
				printSummary(cmd.OutOrStdout(), result)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print a styled summary instead of JSON")
	return cmd
}

func printSummary(w io.Writer, r models.AnalysisResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Score %.0f/100", r.Total)))
	printField(w, "ATS", fmt.Sprintf("%.0f", r.Breakdown.ATS))
	printField(w, "Impact", fmt.Sprintf("%.0f", r.Breakdown.Impact))
	printField(w, "Keywords", fmt.Sprintf("%.0f", r.Breakdown.Keywords))
	printField(w, "Clarity", fmt.Sprintf("%.0f", r.Breakdown.Clarity))
	if len(r.Keywords.Missing) > 0 {
		printField(w, "Missing", strings.Join(r.Keywords.Missing, ", "))
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  • [%s] %s\n", s.Severity, s.Description)
	}
}
