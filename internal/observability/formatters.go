// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/article-enhancer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintHarvestSummary outputs a human-readable summary of one harvest run.
func (p *Printer) PrintHarvestSummary(listingURL string, articles []types.RawArticle) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Listing:  %s\n", listingURL))
	sb.WriteString(fmt.Sprintf("Scraped:  %d articles\n", len(articles)))

	if len(articles) > 0 {
		sb.WriteString("\n")
		count := min(len(articles), maxItemsToShow)
		for i := 0; i < count; i++ {
			title := articles[i].Title
			if len(title) > 50 {
				title = title[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", title))
		}
		if len(articles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(articles)-maxItemsToShow))
		}
	}

	p.printBox("HARVEST SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArticle outputs the stored state of one article.
func (p *Printer) PrintArticle(article *types.Article) {
	if article == nil {
		return
	}

	var sb strings.Builder

	title := article.Title
	if len(title) > 45 {
		title = title[:42] + "..."
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", article.SourceURL))
	sb.WriteString(fmt.Sprintf("Author:   %s\n", article.Author))
	sb.WriteString(fmt.Sprintf("Content:  %d chars\n", len(article.Content)))

	if article.IsEnhanced {
		sb.WriteString("Status:   enhanced")
		if article.EnhancedAt != nil {
			sb.WriteString(fmt.Sprintf(" at %s", article.EnhancedAt.Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Refs:     %d\n", len(article.References)))
	} else {
		sb.WriteString("Status:   pending\n")
	}

	p.printBox("ARTICLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReferences outputs the references collected for one enhancement run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReferences(refs []types.Reference) {
	if len(refs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO REFERENCES COLLECTED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Collected %d references:\n\n", len(refs)))

	for i, ref := range refs {
		title := ref.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", title))
		sb.WriteString(fmt.Sprintf("  %s (%d chars)\n", ref.Source, len(ref.Content)))
		if i < len(refs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("COLLECTED REFERENCES", sb.String())
}

// PrintEnhancementSummary outputs the outcome of an enhancement batch.
func (p *Printer) PrintEnhancementSummary(enhanced, skipped, failed int) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Enhanced: %d\n", enhanced))
	sb.WriteString(fmt.Sprintf("Skipped:  %d\n", skipped))
	sb.WriteString(fmt.Sprintf("Failed:   %d", failed))

	p.printBox("ENHANCEMENT SUMMARY", sb.String())
}
