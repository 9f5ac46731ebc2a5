// Command markwise is the assignment marking CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/ai"
	configfile "github.com/markwise-labs/markwise-cli/internal/adapters/driven/config/file"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/extract"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/retry"
	filestore "github.com/markwise-labs/markwise-cli/internal/adapters/driven/storage/file"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/storage/sqlite"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driven/vector"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/cli"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
	"github.com/markwise-labs/markwise-cli/internal/core/services"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}
	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("init prompt store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	aiSettings, pipelineSettings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	defer store.Close()

	artifacts, err := filestore.NewArtifactStore("")
	if err != nil {
		return fmt.Errorf("init artifact store: %w", err)
	}
	markingStore, err := filestore.NewMarkingStore("")
	if err != nil {
		return fmt.Errorf("init marking store: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	index, err := vector.NewIndex(filepath.Join(home, ".markwise", "data", "rubric.index"))
	if err != nil {
		return fmt.Errorf("open rubric index: %w", err)
	}
	defer index.Close()

	aiResult := ai.InitServices(aiSettings)
	defer aiResult.Close()
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}

	embedding := aiResult.EmbeddingService
	if embedding != nil {
		embedding = retry.NewEmbeddingService(embedding, retry.Config{})
	}
	llm := aiResult.LLMService
	if llm != nil {
		llm = retry.NewLLMService(llm, retry.Config{})
	}

	registry := extract.NewDefaultRegistry()
	if url := os.Getenv("MARKWISE_EXTRACTION_URL"); url != "" {
		registry.Register(extract.NewServiceExtractor(extract.ServiceConfig{
			BaseURL: url,
			APIKey:  os.Getenv("MARKWISE_EXTRACTION_KEY"),
		}))
	}

	keywords := services.NewKeywordService(llm, promptStore)
	indexer := services.NewIndexer(embedding, index, artifacts)
	retriever := services.NewRetriever(index)
	pipeline := services.NewPipelineService(
		registry, embedding, store.DocumentStore(), artifacts,
		keywords, indexer, retriever, *pipelineSettings,
	)

	marking := services.NewMarkingService(markingStore, *pipelineSettings)
	scoring := services.NewScoringService(store.DocumentStore(), artifacts, llm, promptStore, marking)
	calibration := services.NewCalibrationService(markingStore, llm, promptStore, artifacts, *pipelineSettings)

	jobs := services.NewJobRunner(pipeline)
	uploadsRoot := uploadsDir(configStore, home)
	scheduler := services.NewScheduler(domain.DefaultSchedulerConfig(), store.SchedulerStore(), jobs, uploadsRoot)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pipeline:    pipeline,
		Scoring:     scoring,
		Calibration: calibration,
		Marking:     marking,
		Settings:    settingsService,
		Jobs:        jobs,
		Scheduler:   scheduler,
		UploadsRoot: uploadsRoot,
	})

	return cli.Execute()
}

// uploadsDir resolves the watched uploads directory, configurable via
// the uploads.root key.
func uploadsDir(config driven.ConfigStore, home string) string {
	if dir := config.GetString("uploads.root"); dir != "" {
		return dir
	}
	return filepath.Join(home, ".markwise", "uploads")
}
