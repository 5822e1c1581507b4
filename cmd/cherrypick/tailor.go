package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/analysis"
	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/embedding"
	"github.com/jmartell/cherrypick/internal/llm"
	"github.com/jmartell/cherrypick/internal/matching"
	"github.com/jmartell/cherrypick/internal/picker"
	"github.com/jmartell/cherrypick/internal/rendering"
	"github.com/jmartell/cherrypick/internal/tailoring"
	"github.com/jmartell/cherrypick/internal/types"
)

var (
	tailorJobID   string
	tailorPDFPath string
	tailorAnalyze bool
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Run a tailoring job from the command line",
	Long:  "Run the full tailoring pipeline for one job synchronously and print the result JSON, optionally compiling it to PDF.",
	RunE:  runTailor,
}

func init() {
	tailorCmd.Flags().StringVar(&tailorJobID, "job", "", "Job ID to tailor (required)")
	tailorCmd.Flags().StringVar(&tailorPDFPath, "pdf", "", "Also compile the result to a PDF at this path")
	tailorCmd.Flags().BoolVar(&tailorAnalyze, "analyze", false, "Analyze the job first if it has not been analyzed")
	_ = tailorCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	jobID, err := uuid.Parse(tailorJobID)
	if err != nil {
		return fmt.Errorf("invalid job ID %q", tailorJobID)
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TailorTimeout)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	embedder, err := embedding.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbedModel)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.Provider),
		Model:    cfg.PickerModel,
		BaseURL:  cfg.OllamaBaseURL,
		APIKey:   cfg.GeminiAPIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if tailorAnalyze {
		if err := analyzeIfNeeded(ctx, database, client, logger, jobID); err != nil {
			return err
		}
	}

	pipeline := tailoring.NewPipeline(
		database,
		matching.NewMatchmaker(database, embedder, logger),
		picker.NewPicker(client, logger),
		logger,
		cfg.TailorTimeout,
	)
	if _, err := database.EnsureTailoredResume(ctx, jobID); err != nil {
		return err
	}
	if err := pipeline.Run(ctx, jobID); err != nil {
		return err
	}

	rec, err := database.GetTailoredResumeByJob(ctx, jobID)
	if err != nil {
		return err
	}
	fmt.Println(string(rec.Result))

	if tailorPDFPath != "" {
		var resume types.TailoredResume
		if err := json.Unmarshal(rec.Result, &resume); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
		pdf, err := rendering.NewRenderer(cfg.TypstBin, logger).RenderPDF(ctx, &resume)
		if err != nil {
			return err
		}
		if err := os.WriteFile(tailorPDFPath, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Fprintf(os.Stderr, "PDF written to %s\n", tailorPDFPath)
	}
	return nil
}

// analyzeIfNeeded runs job analysis when the job has none stored
func analyzeIfNeeded(ctx context.Context, database *db.DB, client llm.Client, logger *zap.Logger, jobID uuid.UUID) error {
	job, err := database.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", jobID)
	}
	if job.IsAnalyzed {
		return nil
	}

	parsed, err := analysis.NewAnalyzer(client, logger).Analyze(ctx, job.RawDescription)
	if err != nil {
		return fmt.Errorf("job analysis failed: %w", err)
	}
	return database.SaveJobAnalysis(ctx, jobID, parsed.TopResponsibilities, parsed.HardSkills)
}
