package common

import (
	"os"
	"strconv"
	"time"

	"github.com/butterflyhq/butterfly/constants"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	Store    StoreConfig
	RAG      RAGConfig
	Pipeline PipelineConfig
}

// OCRConfig holds rasterization and OCR configuration
type OCRConfig struct {
	Pdftotext     string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm      string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string
	DPI           int
	PageTimeout   time.Duration // bound on rasterize+OCR for a single page
}

// StoreConfig holds document-store configuration
type StoreConfig struct {
	MongoURI    string
	Database    string
	DialTimeout time.Duration
}

// RAGConfig holds retrieval and generation configuration
type RAGConfig struct {
	OllamaHost     string
	EmbeddingModel string
	LLMModel       string
	Temperature    float32
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	IndexPath      string // sqlite file for the persisted vector index
	Timeout        time.Duration
}

// PipelineConfig holds batch-processing configuration
type PipelineConfig struct {
	Workers int // concurrent documents; 1 = sequential
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", constants.DefaultDPI),
			PageTimeout:   getEnvAsDuration("OCR_PAGE_TIMEOUT", 2*time.Minute),
		},
		Store: StoreConfig{
			MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/"),
			Database:    getEnv("MONGO_DB", "pdf_rag"),
			DialTimeout: getEnvAsDuration("MONGO_DIAL_TIMEOUT", 5*time.Second),
		},
		RAG: RAGConfig{
			OllamaHost:     getEnv("OLLAMA_HOST", "localhost:11434"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			LLMModel:       getEnv("LLM_MODEL", "gemma3:12b"),
			Temperature:    getEnvAsFloat32("LLM_TEMPERATURE", 0.1),
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
			TopK:           getEnvAsInt("RETRIEVAL_TOP_K", 3),
			IndexPath:      getEnv("INDEX_PATH", "./index.db"),
			Timeout:        getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
		},
		Pipeline: PipelineConfig{
			Workers: getEnvAsInt("PIPELINE_WORKERS", 1),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.RAG.ChunkSize <= 0 {
		return NewAppError("CONFIG_ERROR", "CHUNK_SIZE must be positive", ErrInvalidInput)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return NewAppError("CONFIG_ERROR", "CHUNK_OVERLAP must be smaller than CHUNK_SIZE", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be >= 1", ErrInvalidInput)
	}
	return nil
}
