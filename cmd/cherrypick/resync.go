package main

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmartell/cherrypick/internal/db"
	"github.com/jmartell/cherrypick/internal/embedding"
)

var resyncYes bool

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Embed all bullets and skills missing a stored vector",
	Long:  "Scan the content bank for bullets and skills without embeddings and generate them. Run after bulk imports or after changing the embedding model.",
	RunE:  runResync,
}

func init() {
	resyncCmd.Flags().BoolVarP(&resyncYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resyncCmd)
}

func runResync(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	bullets, err := database.ListUnembeddedBullets(ctx)
	if err != nil {
		return err
	}
	skills, err := database.ListUnembeddedSkills(ctx)
	if err != nil {
		return err
	}
	if len(bullets) == 0 && len(skills) == 0 {
		fmt.Println("Nothing to embed: all bullets and skills have vectors.")
		return nil
	}

	if !resyncYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Embed %d bullets and %d skills with %s", len(bullets), len(skills), cfg.EmbedModel),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	embedder, err := embedding.NewOllamaEmbedder(cfg.OllamaBaseURL, cfg.EmbedModel)
	if err != nil {
		return err
	}

	embedded := 0
	for _, bullet := range bullets {
		vector, err := embedder.Embed(ctx, bullet.Content)
		if err != nil {
			logger.Warn("failed to embed bullet", zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
			continue
		}
		if err := database.UpsertBulletEmbedding(ctx, bullet.ID, bullet.SourceID, bullet.SourceType, vector); err != nil {
			logger.Warn("failed to store bullet embedding", zap.String("bullet_id", bullet.ID.String()), zap.Error(err))
			continue
		}
		embedded++
	}
	for _, skill := range skills {
		vector, err := embedder.Embed(ctx, skill.Name)
		if err != nil {
			logger.Warn("failed to embed skill", zap.String("skill_id", skill.ID.String()), zap.Error(err))
			continue
		}
		if err := database.UpsertSkillEmbedding(ctx, skill.ID, vector); err != nil {
			logger.Warn("failed to store skill embedding", zap.String("skill_id", skill.ID.String()), zap.Error(err))
			continue
		}
		embedded++
	}

	fmt.Printf("Embedded %d of %d items.\n", embedded, len(bullets)+len(skills))
	return nil
}
