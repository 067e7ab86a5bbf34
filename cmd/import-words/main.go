// Command import-words loads catalog words for one supervisor from an xlsx
// workbook. Rows that fail validation are reported and skipped; the rest
// are stored.
//
// Flags:
//
//	--file        path to the .xlsx workbook (required)
//	--supervisor  UUID of the owning supervisor (required)
//	--sheet       sheet name (default: first sheet)
//	--separator   separator of a combined distractors cell (default ";")
//	--generate    generate missing distractors with the configured AI provider
//
// Exit codes: 0 = every row imported, 1 = error, 2 = some rows rejected.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordclass/internal/adapter/excel"
	"github.com/heartmarshall/wordclass/internal/adapter/postgres"
	"github.com/heartmarshall/wordclass/internal/adapter/postgres/word"
	"github.com/heartmarshall/wordclass/internal/adapter/provider/llm"
	"github.com/heartmarshall/wordclass/internal/app"
	"github.com/heartmarshall/wordclass/internal/config"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
	"github.com/heartmarshall/wordclass/internal/service/quiz"
)

func main() {
	filePath := flag.String("file", "", "path to the .xlsx workbook")
	supervisorFlag := flag.String("supervisor", "", "UUID of the owning supervisor")
	sheet := flag.String("sheet", "", "sheet name (default: first sheet)")
	separator := flag.String("separator", ";", "separator of a combined distractors cell")
	generate := flag.Bool("generate", false, "generate missing distractors with the AI provider")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if *filePath == "" {
		logger.Error("--file is required")
		os.Exit(1)
	}
	supervisorID, err := uuid.Parse(*supervisorFlag)
	if err != nil {
		logger.Error("--supervisor must be a UUID", slog.String("value", *supervisorFlag))
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Error("open workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	rows, err := excel.ReadRows(f, excel.Config{SheetName: *sheet, DistractorSeparator: *separator})
	if err != nil {
		logger.Error("read workbook", slog.String("file", *filePath), slog.String("error", err.Error()))
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

	svc := catalog.NewService(logger, word.New(pool), nil)
	if *generate {
		provider, err := llm.NewProvider(ctx, cfg.LLM.ProviderConfig(), logger)
		if err != nil {
			logger.Error("llm provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if provider == nil {
			logger.Error("--generate needs llm.provider to be configured")
			os.Exit(1)
		}
		svc = catalog.NewService(logger, word.New(pool), quiz.NewService(logger, provider, quiz.Config{MaxTokens: cfg.LLM.MaxTokens}))
	}

	importRows := make([]catalog.ImportRow, 0, len(rows))
	for _, r := range rows {
		importRows = append(importRows, catalog.ImportRow{
			Line:          r.Line,
			Word:          r.Word,
			Definition:    r.Definition,
			ImageURL:      r.ImageURL,
			Distractors:   r.Distractors,
			CorrectOption: r.CorrectOption,
			Unit:          r.Unit,
			Lesson:        r.Lesson,
		})
	}

	result, err := svc.ImportWords(ctx, supervisorID, importRows)
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, e := range result.Errors {
		attrs := []any{slog.Int("line", e.Line), slog.String("reason", e.Reason)}
		for field, msg := range e.Fields {
			attrs = append(attrs, slog.String(field, msg))
		}
		logger.Warn("row rejected", attrs...)
	}

	logger.Info("import completed",
		slog.String("file", *filePath),
		slog.Int("rows", len(rows)),
		slog.Int("created", result.Created),
		slog.Int("rejected", len(result.Errors)),
	)

	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
