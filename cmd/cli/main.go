package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/udislau/ppe-agents/internal/analysis"
	"github.com/udislau/ppe-agents/internal/config"
	"github.com/udislau/ppe-agents/internal/data"
	"github.com/udislau/ppe-agents/internal/model"
	"github.com/udislau/ppe-agents/internal/sim"
)

var log = logrus.New()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --profiles profiles/ --grid-costs costs.csv --out results/history.csv")
	fmt.Println("  cli validate --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate replays the profile CSVs through the market and writes per-step history")
	fmt.Println("  - grid costs repeat cyclically when shorter than the profiles")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	profilesDir := fs.String("profiles", "", "Directory with per-participant profile CSVs")
	costsPath := fs.String("grid-costs", "", "Optional CSV with hourly grid purchase/sale prices")
	outPath := fs.String("out", "results/history.csv", "Output CSV path")
	n := fs.Int("steps", 0, "Optional: limit to first N steps (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" || *profilesDir == "" {
		fmt.Println("--config and --profiles are required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	profiles, err := data.LoadProfiles(*profilesDir)
	if err != nil {
		log.Fatalf("load profiles: %v", err)
	}

	gridCosts, err := loadCosts(*costsPath, cfg)
	if err != nil {
		log.Fatalf("load grid costs: %v", err)
	}

	inputs, err := data.BuildStepInputs(profiles, gridCosts)
	if err != nil {
		log.Fatalf("build inputs: %v", err)
	}

	steps := len(inputs)
	if cfg.Simulation.Steps > 0 && cfg.Simulation.Steps < steps {
		steps = cfg.Simulation.Steps
	}
	if *n > 0 && *n < steps {
		steps = *n
	}

	coop, err := cfg.ToCooperative()
	if err != nil {
		log.Fatalf("build cooperative: %v", err)
	}

	res, err := coop.Run(inputs, steps)
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	if err := sim.WriteHistoryCSV(*outPath, res.History); err != nil {
		log.Fatalf("write history: %v", err)
	}

	s := analysis.Summarize(res.History)
	log.Infof("wrote %d rows to %s", len(res.History), *outPath)
	log.WithFields(logrus.Fields{
		"traded_kwh":       fmt.Sprintf("%.2f", s.TradedEnergy),
		"grid_purchase":    fmt.Sprintf("%.2f", s.GridPurchase),
		"grid_sale":        fmt.Sprintf("%.2f", s.GridSale),
		"self_sufficiency": fmt.Sprintf("%.1f%%", s.SelfSufficiency*100),
		"tokens_minted":    fmt.Sprintf("%.2f", s.TokensMinted),
		"tokens_burned":    fmt.Sprintf("%.2f", s.TokensBurned),
		"final_storage":    fmt.Sprintf("%.2f", res.FinalStorage),
	}).Info("run summary")
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	if _, err := config.Load(*cfgPath); err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	log.Info("config OK")
}

// loadCosts falls back to the config's flat price pair when no costs file is
// given.
func loadCosts(path string, cfg *config.Config) ([]model.GridPrice, error) {
	if path == "" {
		return []model.GridPrice{{Purchase: cfg.Grid.PurchasePrice, Sale: cfg.Grid.SalePrice}}, nil
	}
	return data.LoadGridCosts(path)
}
