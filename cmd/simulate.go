package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	advisorHttp "github.com/glbter/distributed-systems/advisor/client/http"
	"github.com/glbter/distributed-systems/advisor/config"
	"github.com/glbter/distributed-systems/advisor/entities"
	csvreport "github.com/glbter/distributed-systems/advisor/report/csv"
	"github.com/glbter/distributed-systems/advisor/risk"
)

var simulateFlags struct {
	category       string
	alloc          string
	periods        int
	trials         int
	periodsPerYear int
	seed           uint64
	investment     string
	out            string
	remote         string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte Carlo simulation for an allocation or a risk category",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := entities.SimulationReq{
			Periods:        simulateFlags.periods,
			Trials:         simulateFlags.trials,
			PeriodsPerYear: simulateFlags.periodsPerYear,
			IncludeReturns: simulateFlags.out != "",
		}
		if cmd.Flags().Changed("seed") {
			seed := simulateFlags.seed
			req.Seed = &seed
		}
		if simulateFlags.investment != "" {
			inv, err := decimal.NewFromString(simulateFlags.investment)
			if err != nil {
				return entities.KindError(entities.KindInvalidInput, fmt.Sprintf("parse investment: %v", err))
			}
			req.InitialInvestment = inv
		}

		var (
			resp entities.SimulationResp
			err  error
		)
		if simulateFlags.remote != "" {
			if simulateFlags.category != "" {
				return entities.KindError(entities.KindInvalidInput, "--category needs a local catalog, use --alloc with --remote")
			}
			req.Allocation, err = parseAllocation(simulateFlags.alloc)
			if err != nil {
				return err
			}
			c := advisorHttp.NewClient(&http.Client{Timeout: settings.RequestTimeout}, simulateFlags.remote, logger)
			resp, err = c.Simulate(cmd.Context(), req)
		} else {
			resp, err = simulateLocal(cmd, req)
		}
		if err != nil {
			return err
		}

		if simulateFlags.out != "" {
			if err := csvreport.WriteResultFile(simulateFlags.out, entities.SimulationResult{Returns: resp.Returns}); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			logger.Info("wrote trial returns", zap.String("path", simulateFlags.out), zap.Int("trials", len(resp.Returns)))
			resp.Returns = nil
		}

		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func simulateLocal(cmd *cobra.Command, req entities.SimulationReq) (entities.SimulationResp, error) {
	e, err := newEngine()
	if err != nil {
		return entities.SimulationResp{}, err
	}

	switch {
	case simulateFlags.category != "" && simulateFlags.alloc != "":
		return entities.SimulationResp{}, entities.KindError(entities.KindInvalidInput, "--category and --alloc are mutually exclusive")
	case simulateFlags.category != "":
		req.Allocation, err = categoryAllocation(e.Catalog(), simulateFlags.category)
	default:
		req.Allocation, err = parseAllocation(simulateFlags.alloc)
	}
	if err != nil {
		return entities.SimulationResp{}, err
	}

	start := time.Now()
	resp, err := e.Simulate(cmd.Context(), req)
	logger.Debug("finish simulation", zap.Duration("duration", time.Since(start)))

	return resp, err
}

func categoryAllocation(c *config.Catalog, id string) (entities.Allocation, error) {
	for _, category := range c.Categories {
		if category.ID == id {
			return risk.Recommend(category, c.Recommendations)
		}
	}
	return nil, entities.KindError(entities.KindInvalidInput, fmt.Sprintf("unknown risk category %q", id))
}

// parseAllocation reads "stocks=0.6,bonds=0.4".
func parseAllocation(s string) (entities.Allocation, error) {
	alloc := entities.Allocation{}
	if strings.TrimSpace(s) == "" {
		return nil, entities.KindError(entities.KindInvalidInput, "allocation is empty")
	}

	for _, part := range strings.Split(s, ",") {
		name, weight, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			return nil, entities.KindError(entities.KindInvalidInput, fmt.Sprintf("bad allocation entry %q", part))
		}
		w, err := strconv.ParseFloat(weight, 64)
		if err != nil {
			return nil, entities.KindError(entities.KindInvalidInput, fmt.Sprintf("bad weight for %q: %v", name, err))
		}
		if _, dup := alloc[name]; dup {
			return nil, entities.KindError(entities.KindInvalidInput, fmt.Sprintf("duplicate asset %q", name))
		}
		alloc[name] = w
	}

	return alloc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateFlags.category, "category", "", "risk category id whose recommended allocation is simulated")
	f.StringVar(&simulateFlags.alloc, "alloc", "", "allocation as name=weight pairs, e.g. stocks=0.6,bonds=0.4")
	f.IntVar(&simulateFlags.periods, "periods", 12, "number of periods per trial")
	f.IntVar(&simulateFlags.trials, "trials", 1000, "number of trials")
	f.IntVar(&simulateFlags.periodsPerYear, "periods-per-year", 12, "convert annual asset parameters to this period length, 0 keeps them as is")
	f.Uint64Var(&simulateFlags.seed, "seed", 0, "random seed for reproducible runs")
	f.StringVar(&simulateFlags.investment, "investment", "", "initial investment to project")
	f.StringVar(&simulateFlags.out, "out", "", "write per-trial returns to this CSV file")
	f.StringVar(&simulateFlags.remote, "remote", "", "advisor API base URL, simulates remotely when set")
}
