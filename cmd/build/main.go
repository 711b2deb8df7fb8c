package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardhub/internal/config"
	"cardhub/internal/logging"
	"cardhub/internal/pipeline"
	"cardhub/internal/provider"
	"cardhub/internal/writer"
	"cardhub/pkg/database"
	"cardhub/pkg/models"
)

func main() {
	var (
		configPath = flag.String("config", "cardhub.yaml", "path to YAML config")
		inputDir   = flag.String("input", "", "input directory (overrides config)")
		outputDir  = flag.String("output", "", "output directory (overrides config)")
		dbPath     = flag.String("db", "", "sqlite path (overrides config)")
		sets       = flag.String("sets", "", "comma-separated set codes to build (empty = all)")
		pretty     = flag.Bool("pretty", false, "indent JSON output")
		verbose    = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *inputDir != "" {
		cfg.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *sets != "" {
		cfg.Sets = strings.Split(strings.ToUpper(*sets), ",")
	}
	if *pretty {
		cfg.PrettyJSON = true
	}
	if *verbose {
		cfg.Verbose = true
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	loader := provider.NewLoader(cfg.InputDir, logger)

	raws, err := loader.RawPrintings(ctx)
	if err != nil {
		logger.Fatal("load raw printings failed", zap.Error(err))
	}
	raws = filterSets(raws, cfg.Sets)

	aux := loader.Aux(ctx)
	aux.UUIDCache, err = provider.LoadUUIDCache(ctx, db)
	if err != nil {
		logger.Fatal("load uuid cache failed", zap.Error(err))
	}

	result := pipeline.Build(raws, aux, logger)

	jw := writer.NewJSONWriter(cfg.OutputDir, cfg.PrettyJSON, logger)
	if err := jw.WriteSets(ctx, result); err != nil {
		logger.Fatal("write sets failed", zap.Error(err))
	}
	if err := jw.WriteAtomic(result); err != nil {
		logger.Fatal("write atomic failed", zap.Error(err))
	}
	if err := jw.WriteMappings(result); err != nil {
		logger.Fatal("write mappings failed", zap.Error(err))
	}
	if err := writer.WriteCSV(filepath.Join(cfg.OutputDir, "cards.csv"), result.Cards); err != nil {
		logger.Fatal("write cards csv failed", zap.Error(err))
	}
	if err := writer.WriteCSV(filepath.Join(cfg.OutputDir, "tokens.csv"), result.Tokens); err != nil {
		logger.Fatal("write tokens csv failed", zap.Error(err))
	}

	if err := writer.SaveToDatabase(ctx, db, result); err != nil {
		logger.Fatal("save to database failed", zap.Error(err))
	}
	if err := provider.SaveUUIDCache(ctx, db, result.NewCacheEntries); err != nil {
		logger.Fatal("save uuid cache failed", zap.Error(err))
	}

	logger.Info("build done",
		zap.Int("cards", len(result.Cards)),
		zap.Int("tokens", len(result.Tokens)),
		zap.String("outputDir", cfg.OutputDir))
}

func filterSets(raws []models.RawPrinting, sets []string) []models.RawPrinting {
	if len(sets) == 0 {
		return raws
	}
	want := make(map[string]bool, len(sets))
	for _, s := range sets {
		want[strings.ToUpper(s)] = true
	}
	out := raws[:0]
	for _, r := range raws {
		if want[strings.ToUpper(r.SetCode)] {
			out = append(out, r)
		}
	}
	return out
}
