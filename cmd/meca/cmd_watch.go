package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"meca/internal/core"
	"meca/internal/sims/meca"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Animate an automaton in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			tps, _ := cmd.Flags().GetInt("tps")
			on, _ := cmd.Flags().GetString("on")
			off, _ := cmd.Flags().GetString("off")
			steps := cfg.Run.Steps
			if !cmd.Flags().Changed("steps") {
				steps = 0
			}

			auto := cfg.Run.Automaton()
			auto.Height = 1
			a, err := meca.New(auto)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			timer := core.NewFixedStep(tps)
			var sb strings.Builder
			for steps == 0 || a.Row().T() < steps {
				if err := ctx.Err(); err != nil {
					return nil
				}
				if !timer.ShouldStep() {
					time.Sleep(timer.Interval() / 4)
					continue
				}
				sb.Reset()
				row := a.Row()
				for i := 0; i < row.Len(); i++ {
					if row.Cell(i).State() {
						sb.WriteString(on)
					} else {
						sb.WriteString(off)
					}
				}
				fmt.Fprintf(out, "%5d %s\n", row.T(), sb.String())
				if err := a.Step(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("rule", 0, "rule number in [0,15]")
	f.Int("width", 0, "number of cells")
	f.Int("steps", 0, "stop after this many generations (default: until interrupted)")
	f.Float64("alpha", 0, "memory factor in [0,1)")
	f.String("pattern", "", "initial pattern: a 0/1 bitstring, S or SI")
	f.BoolP("single-seed", "s", false, "single true cell in the middle")
	f.Bool("single-seed-inverse", false, "all cells true except the middle one")
	f.BoolP("periodic", "P", false, "periodic boundaries (default)")
	f.BoolP("fixed", "F", false, "fixed-value boundaries")
	f.BoolP("adiabatic", "A", false, "adiabatic boundaries")
	f.BoolP("reflective", "R", false, "reflective boundaries")
	f.String("update-pattern", "", "update policy")
	f.Int64("seed", 0, "random seed")
	f.Int("tps", 20, "generations per second")
	f.String("on", "█", "glyph for true cells")
	f.String("off", " ", "glyph for false cells")
	return cmd
}
