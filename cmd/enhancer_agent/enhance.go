package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/article-enhancer/internal/db"
	"github.com/jonathan/article-enhancer/internal/enhance"
	"github.com/jonathan/article-enhancer/internal/observability"
	"github.com/jonathan/article-enhancer/internal/rewrite"
	"github.com/jonathan/article-enhancer/internal/search"
)

var (
	enhanceID  string
	enhanceBatch int
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Enhance pending articles with reference-backed rewrites",
	Long:  "Searches the web for related articles, scrapes their content, rewrites each pending article with the references worked in, and saves the result.",
	RunE:  runEnhance,
}

func init() {
	enhanceCmd.Flags().StringVar(&enhanceID, "id", "", "Enhance a single article by ID")
	enhanceCmd.Flags().IntVar(&enhanceBatch, "batch", 0, "Maximum pending articles to process (default from config)")
	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(_ *cobra.Command, _ []string) error {
	app, err := loadAppConfig()
	if err != nil {
		return err
	}
	if app.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, app.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	provider := search.NewProvider(search.Config{
		APIKey:     app.SearchAPIKey,
		OriginHost: app.SiteHost,
	})
	rewriter, err := rewrite.NewRewriter(ctx, app.ModelAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create rewriter: %w", err)
	}

	runner := enhance.NewRunner(database, provider, rewriter)
	if app.MaxReferences > 0 {
		runner.MaxRefs = app.MaxReferences
	}

	if enhanceID != "" {
		id, err := uuid.Parse(enhanceID)
		if err != nil {
			return fmt.Errorf("invalid article ID %q: %w", enhanceID, err)
		}
		state, err := runner.RunOne(ctx, id)
		if err != nil {
			return fmt.Errorf("enhancement failed in state %s: %w", state, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Article %s: %s\n", id, state)
		if app.Verbose {
			if article, err := database.GetArticleByID(ctx, id); err == nil {
				observability.NewPrinter(os.Stdout).PrintArticle(article)
			}
		}
		return nil
	}

	maxBatch := enhanceBatch
	if maxBatch <= 0 {
		maxBatch = app.MaxBatch
	}
	summary, err := runner.Run(ctx, maxBatch)
	if err != nil {
		return fmt.Errorf("enhancement run failed: %w", err)
	}

	if app.Verbose {
		observability.NewPrinter(os.Stdout).PrintEnhancementSummary(summary.Enhanced, summary.Skipped, summary.Failed)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "Enhanced %d, skipped %d, failed %d\n",
			summary.Enhanced, summary.Skipped, summary.Failed)
	}
	return nil
}
