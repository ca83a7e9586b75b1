package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/article-enhancer/internal/db"
	"github.com/jonathan/article-enhancer/internal/extract"
	"github.com/jonathan/article-enhancer/internal/harvest"
	"github.com/jonathan/article-enhancer/internal/observability"
)

var (
	harvestCount int
	harvestOut   string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Scrape articles from the origin blog listing",
	Long:  "Renders the configured blog listing page, discovers article links, scrapes each article, and stores new ones in the database.",
	RunE:  runHarvest,
}

func init() {
	harvestCmd.Flags().IntVarP(&harvestCount, "count", "n", 0, "Number of articles to harvest (default from config)")
	harvestCmd.Flags().StringVarP(&harvestOut, "out", "o", "", "Write harvested articles to a JSON file instead of the database")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(_ *cobra.Command, _ []string) error {
	app, err := loadAppConfig()
	if err != nil {
		return err
	}

	count := harvestCount
	if count <= 0 {
		count = app.HarvestCount
	}

	harvester := harvest.New(harvest.Config{
		ListingURL: app.ListingURL,
		Site: extract.Site{
			Host:       app.SiteHost,
			PathPrefix: app.PathPrefix,
		},
		DefaultAuthor: app.Author,
		Verbose:       app.Verbose,
	})

	ctx := context.Background()
	articles, err := harvester.Harvest(ctx, count)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	if app.Verbose {
		observability.NewPrinter(os.Stdout).PrintHarvestSummary(app.ListingURL, articles)
	}

	// File output mode skips the database entirely
	if harvestOut != "" {
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal articles to JSON: %w", err)
		}
		if err := os.WriteFile(harvestOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", harvestOut, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %d articles to %s\n", len(articles), harvestOut)
		return nil
	}

	if app.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required (or use --out)")
	}

	database, err := db.Connect(ctx, app.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	created, skipped := 0, 0
	for i := range articles {
		if _, err := database.InsertArticle(ctx, &articles[i]); err != nil {
			if errors.Is(err, db.ErrDuplicateArticle) {
				skipped++
				continue
			}
			return fmt.Errorf("failed to store article %s: %w", articles[i].SourceURL, err)
		}
		created++
	}

	_, _ = fmt.Fprintf(os.Stdout, "Stored %d new articles, skipped %d duplicates\n", created, skipped)
	return nil
}
