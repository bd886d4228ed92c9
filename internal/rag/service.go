package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/butterflyhq/butterfly/internal/entity"
	"github.com/butterflyhq/butterfly/internal/repository"
)

// QuestionAnsweringService answers a question over the indexed corpus.
type QuestionAnsweringService interface {
	Ask(ctx context.Context, question string) (entity.Answer, error)
}

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const promptTemplate = `You are a helpful AI assistant specialized in analyzing PDF documents, particularly invoices.
Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context: %s

Question: %s

Answer the question based on the context above. Be precise and factual.
If the question involves calculations, show your work.
If you reference specific documents, cite them clearly.
Answer:`

// Service wires chunking, embedding, retrieval and generation together.
type Service struct {
	chunker   Chunker
	embedder  Embedder
	generator Generator
	index     *Index
	qaStore   repository.QAStore // optional; nil disables QA persistence
	topK      int
	logger    *slog.Logger
}

func NewService(chunker Chunker, embedder Embedder, generator Generator, index *Index, qaStore repository.QAStore, topK int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		chunker:   chunker,
		embedder:  embedder,
		generator: generator,
		index:     index,
		qaStore:   qaStore,
		topK:      topK,
		logger:    logger,
	}
}

// IndexDocuments chunks and embeds every page of the given documents and adds
// the result to the index.
func (s *Service) IndexDocuments(ctx context.Context, docs []entity.Document) error {
	var chunks []entity.Chunk
	for _, doc := range docs {
		for _, page := range doc.Pages {
			for i, content := range s.chunker.Split(page.Content) {
				chunks = append(chunks, entity.Chunk{
					ID:       uuid.New(),
					Filename: doc.Filename,
					Page:     page.PageNumber,
					Seq:      i + 1,
					Content:  content,
				})
			}
		}
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no text found in documents")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.index.Add(ctx, chunks); err != nil {
		return err
	}
	s.logger.Info("indexed documents", "documents", len(docs), "chunks", len(chunks))
	return nil
}

// Ask retrieves the most relevant chunks, asks the model, and persists the
// question, answer, and source citations as a QA record.
func (s *Service) Ask(ctx context.Context, question string) (entity.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return entity.Answer{}, fmt.Errorf("question is empty")
	}
	if s.index.Len() == 0 {
		return entity.Answer{}, fmt.Errorf("index is empty, ingest documents first")
	}

	qv, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return entity.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	hits := s.index.Search(qv[0], s.topK)
	contexts := make([]string, 0, len(hits))
	sources := make([]string, 0, len(hits))
	for _, h := range hits {
		contexts = append(contexts, h.Chunk.Content)
		sources = append(sources, h.Chunk.Citation())
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(contexts, "\n\n"), question)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return entity.Answer{}, err
	}

	ans := entity.Answer{Answer: strings.TrimSpace(text), Sources: sources}

	if s.qaStore != nil {
		rec := entity.NewQARecord(question, ans)
		if err := s.qaStore.Insert(ctx, &rec); err != nil {
			// The answer is still useful; persistence failure is logged, not fatal.
			s.logger.Error("failed to store qa pair", "error", err)
		}
	}

	s.logger.Info("answered question", "sources", len(sources))
	return ans, nil
}
