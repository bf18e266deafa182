// gridmind-sim runs simulated episodes of the logical agent (or the random
// baseline) and reports the outcome of each, optionally persisting episodes
// and their knowledge-base clause logs to a SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/gridmind/pkg/gridmind"
	"github.com/cognicore/gridmind/pkg/gridmind/config"
	"github.com/cognicore/gridmind/pkg/gridmind/store"
	"github.com/cognicore/gridmind/pkg/gridmind/store/sqlite"
	"github.com/cognicore/gridmind/pkg/gridmind/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (flags override it)")
		gridSize   = flag.Int("size", 0, "grid dimension n of the n×n cave")
		wumpuses   = flag.Int("wumpuses", -1, "number of wumpuses")
		pitProb    = flag.Float64("pits", -1, "per-cell pit probability")
		seed       = flag.Int64("seed", -1, "base world seed; episode i uses seed+i")
		episodes   = flag.Int("episodes", 1, "number of episodes to run")
		agentKind  = flag.String("agent", "hybrid", "agent to run: hybrid or random")
		budget     = flag.Int("budget", 0, "inference step budget per query (0 = default)")
		risk       = flag.Bool("risk", true, "allow entering unproven cells when stuck")
		maxTurns   = flag.Int("max-turns", 0, "per-episode action cap")
		dbPath     = flag.String("db", "", "SQLite path for episode persistence")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	// flags override the file
	if *gridSize > 0 {
		cfg.GridSize = *gridSize
	}
	if *wumpuses >= 0 {
		cfg.Wumpuses = *wumpuses
	}
	if *pitProb >= 0 {
		cfg.PitProbability = *pitProb
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}
	if *budget > 0 {
		cfg.DPLLBudget = *budget
	}
	if *maxTurns > 0 {
		cfg.MaxTurns = *maxTurns
	}
	cfg.RiskExploration = *risk
	if *dbPath != "" {
		cfg.SnapshotDB = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	var db store.Store
	if cfg.SnapshotDB != "" {
		if db, err = sqlite.Open(ctx, cfg.SnapshotDB); err != nil {
			logger.Fatal("open store", zap.Error(err))
		}
		defer db.Close()
	}

	wins, totalScore := 0, 0
	for i := 0; i < *episodes; i++ {
		episodeSeed := cfg.Seed + int64(i)
		outcome, score, err := runEpisode(ctx, cfg, *agentKind, episodeSeed, db, logger)
		if err != nil {
			logger.Fatal("episode failed", zap.Int64("seed", episodeSeed), zap.Error(err))
		}
		if outcome == world.Escaped {
			wins++
		}
		totalScore += score
	}

	logger.Info("done",
		zap.Int("episodes", *episodes),
		zap.Int("escaped", wins),
		zap.Float64("mean_score", float64(totalScore)/float64(*episodes)),
	)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runEpisode(ctx context.Context, cfg config.Config, agentKind string, seed int64, db store.Store, logger *zap.Logger) (world.Status, int, error) {
	w, err := world.New(world.Config{
		Size:           cfg.GridSize,
		Wumpuses:       cfg.Wumpuses,
		PitProbability: cfg.PitProbability,
		Seed:           seed,
	})
	if err != nil {
		return 0, 0, err
	}

	var policy gridmind.Policy
	var hybrid *gridmind.Agent
	switch agentKind {
	case "hybrid":
		hybrid, err = gridmind.NewAgent(gridmind.Options{
			Size:            cfg.GridSize,
			Budget:          cfg.DPLLBudget,
			RiskExploration: cfg.RiskExploration,
			Logger:          logger,
		})
		if err != nil {
			return 0, 0, err
		}
		policy = hybrid
	case "random":
		policy = gridmind.NewRandomAgent(seed)
	default:
		return 0, 0, fmt.Errorf("unknown agent %q", agentKind)
	}

	turns, err := gridmind.Run(w, policy, cfg.MaxTurns)
	if err != nil {
		return 0, 0, err
	}

	logger.Info("episode finished",
		zap.Int64("seed", seed),
		zap.String("agent", agentKind),
		zap.Stringer("outcome", w.Status()),
		zap.Int("score", w.Score()),
		zap.Int("turns", turns),
	)

	if db != nil {
		id := store.NewEpisodeID()
		if err := db.SaveEpisode(ctx, store.Episode{
			ID:        id,
			GridSize:  cfg.GridSize,
			Seed:      seed,
			Agent:     agentKind,
			Outcome:   w.Status().String(),
			Score:     w.Score(),
			Turns:     turns,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return 0, 0, err
		}
		if hybrid != nil {
			var log []string
			for _, c := range hybrid.KB().Clauses() {
				log = append(log, c.String())
			}
			if err := db.SaveClauses(ctx, id, log); err != nil {
				return 0, 0, err
			}
		}
	}

	return w.Status(), w.Score(), nil
}
