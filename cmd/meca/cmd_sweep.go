package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meca/internal/sims/meca"
	"meca/internal/store"
	"meca/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run every combination of rules, alphas, boundaries and policies",
		Long: `Sweep combines the sweep section of the configuration (or the flags
below) with the run section as base, runs the simulations concurrently and
prints one summary line per combination, sorted by rule and alpha.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("rules") {
				cfg.Sweep.Rules, _ = f.GetIntSlice("rules")
			}
			if f.Changed("alphas") {
				cfg.Sweep.Alphas, _ = f.GetFloat64Slice("alphas")
			}
			if f.Changed("boundaries") {
				names, _ := f.GetStringSlice("boundaries")
				cfg.Sweep.Boundaries = cfg.Sweep.Boundaries[:0]
				for _, n := range names {
					b, err := meca.ParseBoundary(n)
					if err != nil {
						return err
					}
					cfg.Sweep.Boundaries = append(cfg.Sweep.Boundaries, b)
				}
			}
			if f.Changed("policies") {
				names, _ := f.GetStringSlice("policies")
				cfg.Sweep.Policies = cfg.Sweep.Policies[:0]
				for _, n := range names {
					p, err := meca.ParsePolicy(n)
					if err != nil {
						return err
					}
					cfg.Sweep.Policies = append(cfg.Sweep.Policies, p)
				}
			}
			if f.Changed("workers") {
				cfg.Sweep.Workers, _ = f.GetInt("workers")
			}
			if f.Changed("steps") {
				cfg.Run.Steps, _ = f.GetInt("steps")
			}
			if f.Changed("width") {
				cfg.Run.Width, _ = f.GetInt("width")
			}
			if f.Changed("seed") {
				cfg.Run.Seed, _ = f.GetInt64("seed")
			}
			if on, _ := f.GetBool("store"); on {
				cfg.Store.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner := &sweep.Runner{
				Workers:   cfg.Sweep.Workers,
				Steps:     cfg.Run.Steps,
				StartStep: cfg.Run.StartStep,
				Logger:    newLogger(cmd, cfg),
			}
			if cfg.Store.Enabled {
				s, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer s.Close()
				runner.Store = s
			}

			jobs := sweep.Plan(cfg.Run.Automaton(), sweep.Grid{
				Rules:      cfg.Sweep.Rules,
				Alphas:     cfg.Sweep.Alphas,
				Boundaries: cfg.Sweep.Boundaries,
				Policies:   cfg.Sweep.Policies,
			})
			results, err := runner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sweep.Records(results, cfg.Run.Steps))
			}
			for _, res := range results {
				fmt.Fprintln(out, runReport{
					Rule:         res.Config.Rule,
					Boundaries:   res.Config.Boundary.String(),
					UpdatePolicy: res.Config.Policy.String(),
					Alpha:        res.Config.Alpha,
					Means:        res.Summary.Mean,
					Variance:     res.Summary.Variance,
				})
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntSlice("rules", nil, "rules to sweep (default all 16)")
	f.Float64Slice("alphas", nil, "alpha values to sweep")
	f.StringSlice("boundaries", nil, "boundary modes to sweep")
	f.StringSlice("policies", nil, "update policies to sweep")
	f.Int("workers", 0, "concurrent simulations (default one per CPU)")
	f.Int("steps", 0, "generations per simulation")
	f.Int("width", 0, "cells per simulation")
	f.Int64("seed", 0, "root seed; each job derives its own stream")
	f.Bool("store", false, "save every summary to the results database")
	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the truth table and sensitivity of all 16 rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			type ruleInfo struct {
				Code        int     `json:"code"`
				Table       [4]bool `json:"table"`
				Sensitivity float64 `json:"sensitivity"`
			}
			infos := make([]ruleInfo, 16)
			for code := range infos {
				r, err := meca.NewRule(code)
				if err != nil {
					return err
				}
				infos[code] = ruleInfo{Code: code, Table: r.Table(), Sensitivity: r.Sensitivity()}
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\t00\t01\t10\t11\tSENSITIVITY")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.3f\n", meca.Rule(info.Code),
					b2i(info.Table[0]), b2i(info.Table[1]), b2i(info.Table[2]), b2i(info.Table[3]), info.Sensitivity)
			}
			return w.Flush()
		},
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
