package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"symptom-checker/pkg"
)

var flagSymptomsJSON bool

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the symptom identifiers the matcher understands",
	Args:  cobra.NoArgs,
	RunE:  runSymptoms,
}

func init() {
	symptomsCmd.Flags().BoolVar(&flagSymptomsJSON, "json", false, "Print the list as JSON")
	rootCmd.AddCommand(symptomsCmd)
}

func runSymptoms(cmd *cobra.Command, _ []string) error {
	store, err := loadStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	vocab := store.Vocabulary()

	out := cmd.OutOrStdout()
	if flagSymptomsJSON {
		if vocab == nil {
			vocab = []string{}
		}
		return json.NewEncoder(out).Encode(pkg.SymptomsResponse{Symptoms: vocab})
	}
	if len(vocab) == 0 {
		fmt.Fprintln(out, "No symptoms loaded.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, s := range vocab {
		fmt.Fprintf(w, "%d\t%s\n", i+1, s)
	}
	return w.Flush()
}
