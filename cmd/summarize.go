package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/glbter/distributed-systems/advisor/entities"
	csvreport "github.com/glbter/distributed-systems/advisor/report/csv"
	"github.com/glbter/distributed-systems/advisor/simulation"
)

var summarizeInvestment string

var summarizeCmd = &cobra.Command{
	Use:   "summarize results.csv",
	Short: "Summarize per-trial returns written by simulate --out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := csvreport.ReadResultFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		out := struct {
			Summary    entities.SimulationSummary `json:"summary"`
			Projection *entities.Projection       `json:"projection,omitempty"`
		}{Summary: simulation.Summarize(res)}

		if summarizeInvestment != "" {
			inv, err := decimal.NewFromString(summarizeInvestment)
			if err != nil {
				return entities.KindError(entities.KindInvalidInput, fmt.Sprintf("parse investment: %v", err))
			}
			p := simulation.Project(inv, out.Summary)
			out.Projection = &p
		}

		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInvestment, "investment", "", "initial investment to project")
}
