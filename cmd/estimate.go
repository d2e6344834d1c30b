package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"flex_report/internal/config"
	"flex_report/internal/engine"
	"flex_report/internal/logger"
	"flex_report/internal/models"
	"flex_report/internal/service"

	"github.com/spf13/cobra"
)

type estimateFlags struct {
	fluid        string
	hours        float64
	application  string
	manufacturer string
	category     string
	model        string
	severity     float64
	threshold    float64
	rpvot        float64
	aminic       float64
	deltaE       float64
	asJSON       bool
	reportPath   string
}

func estimateCmd() *cobra.Command {
	var f estimateFlags
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the remaining useful life of one oil sample",
		Example: `  flex estimate --fluid "Mobil DTE 832" --hours 12000 --application "Large Gas Turbine"
  flex estimate --fluid "Chevron GST 32" --hours 8000 --rpvot 55 --delta-e 22 --report flex.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			return runEstimate(cmd.Context(), cfg, req, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.fluid, "fluid", "", "fluid name (see `flex fluids`)")
	fl.Float64Var(&f.hours, "hours", 0, "hours in use")
	fl.StringVar(&f.application, "application", "", "application category")
	fl.StringVar(&f.manufacturer, "manufacturer", "", "equipment manufacturer")
	fl.StringVar(&f.category, "category", "", "equipment category")
	fl.StringVar(&f.model, "model", "", "equipment model")
	fl.Float64Var(&f.severity, "severity", 0, "severity rating override")
	fl.Float64Var(&f.threshold, "threshold", 0, "end-of-life health index %")
	fl.Float64Var(&f.rpvot, "rpvot", 0, "measured RPVOT % of new oil")
	fl.Float64Var(&f.aminic, "aminic", 0, "measured aminic antioxidant % of new oil")
	fl.Float64Var(&f.deltaE, "delta-e", 0, "MPC delta E")
	fl.BoolVar(&f.asJSON, "json", false, "print the estimate as JSON")
	fl.StringVar(&f.reportPath, "report", "", "also write the FLEX REPORT PDF to this path")
	_ = cmd.MarkFlagRequired("fluid")
	return cmd
}

// request maps flags to an engine request. Unset numeric flags stay nil.
func (f estimateFlags) request(cmd *cobra.Command) (engine.Request, error) {
	req := engine.Request{
		Fluid:        f.fluid,
		ElapsedHours: f.hours,
		SeverityInput: engine.SeverityInput{
			Application: f.application,
		},
	}

	ref := models.EquipmentRef{Manufacturer: f.manufacturer, Category: f.category, Model: f.model}
	if ref != (models.EquipmentRef{}) {
		if ref.Manufacturer == "" || ref.Category == "" || ref.Model == "" {
			return req, fmt.Errorf("--manufacturer, --category and --model must be given together")
		}
		req.Equipment = &ref
	}

	optional := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	req.Override = optional("severity", f.severity)
	req.ThresholdPct = optional("threshold", f.threshold)
	req.Measured = engine.Measurements{
		RPVOTPct:  optional("rpvot", f.rpvot),
		AminicPct: optional("aminic", f.aminic),
		DeltaE:    optional("delta-e", f.deltaE),
	}
	return req, nil
}

func runEstimate(ctx context.Context, cfg *config.Config, req engine.Request, f estimateFlags) error {
	estimator, err := buildEstimator(cfg)
	if err != nil {
		return err
	}
	svc := service.NewEstimationService(estimator, cfg.Batch, logger.Nop())

	est, err := svc.Estimate(ctx, req)
	if err != nil {
		return err
	}

	if f.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(est); err != nil {
			return err
		}
	} else {
		fmt.Println(renderEstimate(est))
	}

	if f.reportPath == "" {
		return nil
	}
	out, err := os.Create(f.reportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	err = service.NewReportService().RenderReport(out, service.ReportInput{
		Estimate:    &est,
		Equipment:   req.Equipment,
		Application: req.Application,
		GeneratedAt: time.Now(),
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if !f.asJSON {
		fmt.Println(styles.Muted.Render("report written to " + f.reportPath))
	}
	return nil
}

func fluidsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fluids",
		Short: "List known fluids",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			estimator, err := buildEstimator(cfg)
			if err != nil {
				return err
			}
			fmt.Println(renderList("Fluids", estimator.ListKnownFluids()))
			return nil
		},
	}
}

func equipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equipment",
		Short: "List equipment profiles and application categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			estimator, err := buildEstimator(cfg)
			if err != nil {
				return err
			}
			fmt.Println(renderTree(estimator.ListKnownEquipment()))
			fmt.Println(renderList("Applications", estimator.ListApplications()))
			return nil
		},
	}
}
