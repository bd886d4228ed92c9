package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/butterflyhq/butterfly/internal/common"
	"github.com/butterflyhq/butterfly/internal/export"
	"github.com/butterflyhq/butterfly/internal/rag"
	"github.com/butterflyhq/butterfly/internal/repository"
)

func main() {
	var (
		question = flag.String("question", "", "question to ask over the indexed corpus")
		ingest   = flag.Bool("ingest", false, "(re)index all documents from the store before asking")
		list     = flag.Bool("list", false, "list stored invoices and exit")
		qaOut    = flag.String("qa-out", "", "export stored QA pairs to this JSON file and exit")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	m, err := repository.OpenMongo(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = m.Close(ctx) }()

	if *list {
		docs, err := m.Documents().Find(ctx, nil)
		if err != nil {
			logger.Error("failed to list invoices", "error", err)
			os.Exit(1)
		}
		for _, d := range docs {
			if len(d.Pages) == 0 {
				continue
			}
			first := d.Pages[0].Fields
			fmt.Printf("%s  customer=%q  invoice=%s  date=%s  amount=%.2f\n",
				d.Filename, first.CustomerName, first.InvoiceNumber, first.Date, first.Amount)
		}
		return
	}

	if *qaOut != "" {
		recs, err := m.QAPairs().Find(ctx, nil)
		if err != nil {
			logger.Error("failed to load qa pairs", "error", err)
			os.Exit(1)
		}
		if err := export.WriteQAPairsJSON(recs, *qaOut); err != nil {
			logger.Error("failed to export qa pairs", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d QA pairs to %s\n", len(recs), *qaOut)
		return
	}

	if *question == "" && !*ingest {
		fmt.Fprintln(os.Stderr, "Error: one of -question, -ingest, -list, -qa-out is required")
		os.Exit(1)
	}

	index, err := rag.OpenIndex(cfg.RAG.IndexPath)
	if err != nil {
		logger.Error("failed to open index", "error", err)
		os.Exit(1)
	}
	defer func() { _ = index.Close() }()

	ollama := rag.NewOllamaClient(rag.OllamaConfig{
		Host:           cfg.RAG.OllamaHost,
		EmbeddingModel: cfg.RAG.EmbeddingModel,
		LLMModel:       cfg.RAG.LLMModel,
		Temperature:    cfg.RAG.Temperature,
		Timeout:        cfg.RAG.Timeout,
	})
	svc := rag.NewService(
		rag.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		ollama, ollama, index, m.QAPairs(), cfg.RAG.TopK, logger,
	)

	if *ingest {
		docs, err := m.Documents().Find(ctx, nil)
		if err != nil {
			logger.Error("failed to load documents", "error", err)
			os.Exit(1)
		}
		if err := svc.IndexDocuments(ctx, docs); err != nil {
			logger.Error("failed to index documents", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d documents (%d chunks)\n", len(docs), index.Len())
	}

	if *question != "" {
		ans, err := svc.Ask(ctx, *question)
		if err != nil {
			logger.Error("failed to answer question", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n\nSources:\n", ans.Answer)
		for _, s := range ans.Sources {
			fmt.Printf("- %s\n", s)
		}
	}
}
