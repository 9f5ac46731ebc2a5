package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers and pipeline tuning.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for rubric and chunk vectors.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for keyword expansion, calibration and scoring.`,
	RunE:  runSettingsLLM,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Configure pipeline tuning",
	Long:  `Configure chunking, retrieval and reconciliation parameters.`,
	RunE:  runSettingsPipeline,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	ai, pipeline, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", ai.EmbeddingProvider.Description())
	cmd.Printf("  Model: %s\n", ai.EmbeddingModel)
	if ai.EmbeddingProvider.IsLocal() && ai.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", ai.BaseURL)
	}
	status := "configured"
	if !ai.EmbeddingConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", ai.LLMProvider.Description())
	cmd.Printf("  Model: %s\n", ai.LLMModel)
	status = "configured"
	if !ai.LLMConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	if ai.EmbeddingProvider.RequiresAPIKey() || ai.LLMProvider.RequiresAPIKey() {
		if ai.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(ai.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Max chunk length: %d\n", pipeline.MaxChunkLen)
	cmd.Printf("  Topic segmentation: %v\n", pipeline.UseTopicSegmentation)
	cmd.Printf("  Retrieval top-k: %d\n", pipeline.Retrieval.TopK)
	cmd.Printf("  Retrieval threshold: %.2f\n", pipeline.Retrieval.Threshold)
	cmd.Printf("  Max chunks per dimension: %d\n", pipeline.Retrieval.MaxChunksPerDimension)
	cmd.Printf("  Total score: %.1f\n", pipeline.TotalScore)
	cmd.Printf("  Band width: %.1f\n", pipeline.BandWidth)
	cmd.Printf("  Review threshold: %.2f\n", pipeline.ReviewThreshold)
	cmd.Printf("  Workers: %d\n", pipeline.Workers)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'markwise settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Markwise Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Embeddings map rubric dimensions and submission chunks into the retrieval index.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	cmd.Println("The LLM expands rubric keywords, learns your marking style and scores submissions.")
	cmd.Println()
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: Pipeline Tuning")
	cmd.Println("-----------------------")
	if err := configurePipeline(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureLLMProvider(cmd, reader)
}

func runSettingsPipeline(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configurePipeline(cmd, reader)
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configurePipeline(cmd *cobra.Command, reader *bufio.Reader) error {
	_, current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := *current
	updated.MaxChunkLen = promptInt(cmd, reader, "Max chunk length", current.MaxChunkLen)
	updated.Retrieval.TopK = promptInt(cmd, reader, "Retrieval top-k", current.Retrieval.TopK)
	updated.Retrieval.Threshold = promptFloat(cmd, reader, "Retrieval threshold", current.Retrieval.Threshold)
	updated.Retrieval.MaxChunksPerDimension = promptInt(cmd, reader, "Max chunks per dimension", current.Retrieval.MaxChunksPerDimension)
	updated.TotalScore = promptFloat(cmd, reader, "Total score", current.TotalScore)
	updated.BandWidth = promptFloat(cmd, reader, "Calibration band width", current.BandWidth)
	updated.ReviewThreshold = promptFloat(cmd, reader, "Review threshold", current.ReviewThreshold)
	updated.Workers = promptInt(cmd, reader, "Concurrent workers", current.Workers)

	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid pipeline settings: %w", err)
	}
	if err := settingsService.SavePipeline(&updated); err != nil {
		return fmt.Errorf("failed to save pipeline settings: %w", err)
	}

	cmd.Println("Pipeline settings saved.")
	cmd.Println()
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return current
	}
	return val
}

func promptFloat(cmd *cobra.Command, reader *bufio.Reader, label string, current float64) float64 {
	cmd.Printf("%s [%g]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return current
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
