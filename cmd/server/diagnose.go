package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	flagDiagnoseJSON bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <symptom>...",
	Short: "Match symptoms against the reference data and print the result",
	Long: `Symptoms may be given as separate arguments or comma-separated:

  symptom-checker diagnose itching skin_rash
  symptom-checker diagnose "itching, skin_rash, nodal_skin_eruptions"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&flagDiagnoseJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	store, err := loadStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	svc := newService(store, cfg, logger)

	match, err := svc.Match(splitSymptoms(args))
	if err != nil {
		return err
	}
	res := svc.Enrich(match)

	out := cmd.OutOrStdout()
	if flagDiagnoseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Disease:\t%s\n", res.Disease)
	fmt.Fprintf(w, "Matched symptoms:\t%d\n", match.Score)
	fmt.Fprintf(w, "Confidence:\t%d (fixed)\n", res.Confidence)
	fmt.Fprintf(w, "Description:\t%s\n", res.Description)
	fmt.Fprintf(w, "Medications:\t%s\n", strings.Join(res.Medications, "; "))
	fmt.Fprintf(w, "Precautions:\t%s\n", strings.Join(res.Precautions, "; "))
	if match.Empty() {
		fmt.Fprintln(w, "\nNote: none of the symptoms matched; the first condition was returned.")
	}
	return w.Flush()
}

func splitSymptoms(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Split(a, ",")...)
	}
	return out
}
