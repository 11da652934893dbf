package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meca/internal/store"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List run summaries saved in the results database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var filter store.Filter
			if f.Changed("rule") {
				rule, _ := f.GetInt("rule")
				filter.Rule = &rule
			}
			filter.Boundary, _ = f.GetString("boundary")
			filter.Policy, _ = f.GetString("policy")
			filter.Limit, _ = f.GetInt("limit")

			s, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()
			runs, err := s.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := f.GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs stored.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRULE\tALPHA\tBOUNDARY\tPOLICY\tWIDTH\tSTEPS\tMEAN\tVARIANCE")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%d\t%.3f\t%s\t%s\t%d\t%d\t%.6f\t%.6f\n",
					shortID(r.ID), r.Rule, r.Alpha, r.Boundary, r.Policy, r.Width, r.Steps, r.Mean, r.Variance)
			}
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.Int("rule", 0, "only runs of this rule")
	f.String("boundary", "", "only runs with this boundary mode")
	f.String("policy", "", "only runs with this update policy")
	f.Int("limit", 0, "maximum number of runs (0 for all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
