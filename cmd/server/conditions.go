package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"symptom-checker/internal/reference"
	"symptom-checker/pkg"
)

var flagConditionsJSON bool

var conditionsCmd = &cobra.Command{
	Use:   "conditions",
	Short: "List the conditions a diagnosis can return and their detail coverage",
	Args:  cobra.NoArgs,
	RunE:  runConditions,
}

func init() {
	conditionsCmd.Flags().BoolVar(&flagConditionsJSON, "json", false, "Print the list as JSON")
	rootCmd.AddCommand(conditionsCmd)
}

func runConditions(cmd *cobra.Command, _ []string) error {
	store, err := loadStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	conds := store.Conditions()

	out := cmd.OutOrStdout()
	if flagConditionsJSON {
		if conds == nil {
			conds = []string{}
		}
		return json.NewEncoder(out).Encode(pkg.ConditionsResponse{Conditions: conds})
	}
	if len(conds) == 0 {
		fmt.Fprintln(out, "No conditions loaded.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONDITION\tDESCRIPTION\tPRECAUTIONS\tMEDICATIONS")
	for _, c := range conds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c,
			mark(store.Describe(c) != reference.DescriptionPlaceholder),
			count(store.PrecautionsFor(c), reference.PrecautionPlaceholder),
			count(store.MedicationsFor(c), reference.MedicationPlaceholder))
	}
	return w.Flush()
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}

// count reports how many entries a lookup returned, or "-" for the placeholder.
func count(values []string, placeholder string) string {
	if len(values) == 1 && values[0] == placeholder {
		return "-"
	}
	return fmt.Sprint(len(values))
}
