// Command ldatranslate-dictimport bulk-loads a bilingual lexicon from a
// Postgres table (schema applied with goose, queried with squirrel) into a
// dictionary.Dictionary container on disk. It is meant to be run offline,
// once per language pair, not as part of any translation-engine runtime.
//
// Flags:
//
//	--lang-a    language hint for the A side of the dictionary (required)
//	--lang-b    language hint for the B side of the dictionary (required)
//	--dry-run   read and fold rows without writing the output file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/ldatranslate/internal/adapter/postgres"
	"github.com/heartmarshall/ldatranslate/internal/app"
	"github.com/heartmarshall/ldatranslate/internal/config"
	"github.com/heartmarshall/ldatranslate/internal/dictionary"
	"github.com/heartmarshall/ldatranslate/internal/vocabulary"
)

func main() {
	langAFlag := flag.String("lang-a", "", "language hint for the A side (required)")
	langBFlag := flag.String("lang-b", "", "language hint for the B side (required)")
	dryRunFlag := flag.Bool("dry-run", false, "read and fold rows without writing the output file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("ldatranslate-dictimport starting", slog.String("version", app.BuildVersion()))

	if *langAFlag == "" || *langBFlag == "" {
		logger.Error("--lang-a and --lang-b are both required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	reader := postgres.NewLexiconReader(pool, cfg.Import.SourceTable, cfg.Import.BatchSize)
	dict := dictionary.New(vocabulary.LanguageHint(*langAFlag), vocabulary.LanguageHint(*langBFlag))

	total := 0
	for {
		rows, err := reader.Next(ctx)
		if err != nil {
			logger.Error("read lexicon batch", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			var dictA, dictB []string
			if row.Dictionary != "" {
				dictA = []string{row.Dictionary}
				dictB = []string{row.Dictionary}
			}
			dict.Add(dictionary.Entry{
				WordA:       row.WordA,
				WordB:       row.WordB,
				DictionaryA: dictA,
				DictionaryB: dictB,
				MetaA:       row.MetaA,
				MetaB:       row.MetaB,
				UnstemmedA:  row.UnstemmedA,
				UnstemmedB:  row.UnstemmedB,
			})
		}

		total += len(rows)
		logger.Info("folded lexicon batch", slog.Int("rows", len(rows)), slog.Int("total", total))
	}

	if total == 0 {
		logger.Warn("no rows read from source table", slog.String("table", cfg.Import.SourceTable))
	}

	if *dryRunFlag {
		logger.Info("dry run complete, not writing output", slog.Int("rows", total))
		return
	}

	if err := dict.Save(cfg.Import.OutputPath); err != nil {
		logger.Error("save dictionary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("ldatranslate-dictimport complete",
		slog.Int("rows", total),
		slog.String("output", cfg.Import.OutputPath))
}
