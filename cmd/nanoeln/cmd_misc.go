package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nanoeln/internal/predict"
	"nanoeln/pkg/domain"
)

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace all lab data with the seed dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Store.ResetData(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "lab data reset to seed")
			return err
		},
	}
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Dashboard counts and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Store.Summary())
		},
	}
}

func (c *cli) auditCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := c.app.Store.AuditLog()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 15, "maximum entries to show (0 for all)")
	return cmd
}

func (c *cli) integrityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "integrity",
		Short: "Report orphaned records and counter drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), c.app.Store.CheckIntegrity())
		},
	}
}

func (c *cli) predictCmd() *cobra.Command {
	p := domain.ProcessParameters{
		LipidComposition: domain.LipidComposition{IonizableLipid: 50, DSPC: 10, Cholesterol: 38.5, PEGLipid: 1.5},
		FlowRate:         3,
		Temperature:      25,
		PH:               4,
	}
	var history bool
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict particle properties for formulation parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if history {
				return printJSON(cmd.OutOrStdout(), c.app.Store.Predictions())
			}
			res, err := c.app.Store.RunPrediction(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				domain.PredictionResult
				Targets        predict.Targets `json:"targets"`
				MeanConfidence float64         `json:"mean_confidence"`
			}{res, predict.DefaultTargets, res.Predictions.MeanConfidence()})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&p.LipidComposition.IonizableLipid, "ionizable", p.LipidComposition.IonizableLipid, "ionizable lipid mol%")
	f.Float64Var(&p.LipidComposition.DSPC, "dspc", p.LipidComposition.DSPC, "DSPC mol%")
	f.Float64Var(&p.LipidComposition.Cholesterol, "cholesterol", p.LipidComposition.Cholesterol, "cholesterol mol%")
	f.Float64Var(&p.LipidComposition.PEGLipid, "peg", p.LipidComposition.PEGLipid, "PEG-lipid mol%")
	f.Float64Var(&p.FlowRate, "flow", p.FlowRate, "flow rate mL/min")
	f.Float64Var(&p.Temperature, "temperature", p.Temperature, "temperature in Celsius")
	f.Float64Var(&p.PH, "ph", p.PH, "buffer pH")
	f.BoolVar(&history, "history", false, "list past predictions instead of running one")
	return cmd
}
