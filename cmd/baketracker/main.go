package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kentonium3/bake-tracker-sub012/pkg/application/services/planning"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"
	"github.com/kentonium3/bake-tracker-sub012/pkg/domain/repositories"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/config"
	csvrepo "github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/repositories/csv"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/repositories/memory"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/repositories/sqlite"
	"github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/units"
	zaplogger "github.com/kentonium3/bake-tracker-sub012/pkg/infrastructure/logger"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to config file (optional)")
		scenarioDir = flag.String("scenario", "", "Path to scenario directory containing CSV files")
		dbPath      = flag.String("db", "", "Path to sqlite database (overrides config)")
		eventID     = flag.String("event", "", "Event to plan")
		feasibility = flag.Bool("feasibility", false, "Check assembly feasibility against recorded batch decisions")
		shopping    = flag.Bool("shopping", false, "Print the shopping list for the event's plan")
		stale       = flag.Bool("stale", false, "Check whether the event's plan is stale")
	)
	flag.Parse()

	if err := run(*configFile, *scenarioDir, *dbPath, *eventID, *feasibility, *shopping, *stale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, scenarioDir, dbPath, eventID string, feasibility, shopping, stale bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if scenarioDir == "" {
		scenarioDir = cfg.Scenario.Dir
	}
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if eventID == "" {
		return fmt.Errorf("an event id is required (-event)")
	}

	logger, err := zaplogger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	var store repositories.Store
	if scenarioDir != "" {
		memStore := memory.NewStore()
		if err := csvrepo.NewLoader().LoadScenario(ctx, scenarioDir, memStore); err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		logger.Info("scenario loaded", zap.String("dir", scenarioDir))
		store = memStore
	} else {
		sqlStore, err := sqlite.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	service := planning.NewService(store, units.NewIdentityConverter(), logger)
	id := entities.EventID(eventID)

	if stale {
		isStale, reason, err := service.IsPlanStale(ctx, id)
		if err != nil {
			return err
		}
		printStaleness(os.Stdout, isStale, reason)
		return nil
	}

	if shopping {
		gaps, err := service.GetShoppingList(ctx, id)
		if err != nil {
			return err
		}
		printShoppingList(os.Stdout, gaps)
		return nil
	}

	if feasibility {
		result, err := service.CheckAssemblyFeasibility(ctx, id)
		if err != nil {
			return err
		}
		printFeasibility(os.Stdout, result)
		return nil
	}

	snapshot, err := service.CalculatePlan(ctx, id)
	if err != nil {
		return err
	}
	printSnapshot(os.Stdout, snapshot)
	return nil
}
