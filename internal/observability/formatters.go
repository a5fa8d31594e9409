// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
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

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a summary of the normalized candidate profile.
func (p *Printer) PrintProfile(profile *types.CanonicalProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if profile.Identity.FullName != "" {
		sb.WriteString(fmt.Sprintf("Name:      %s\n", profile.Identity.FullName))
	}
	if profile.Undergraduate != nil {
		sb.WriteString(fmt.Sprintf("UG:        %s\n", profile.Undergraduate.Degree))
	}
	if profile.Postgraduate != nil {
		sb.WriteString(fmt.Sprintf("PG:        %s\n", profile.Postgraduate.Degree))
	}
	if profile.Preferences.PreferredIndustry != "" {
		sb.WriteString(fmt.Sprintf("Industry:  %s\n", profile.Preferences.PreferredIndustry))
	}
	sb.WriteString(fmt.Sprintf("Experience records: %d\n", profile.ExperienceRecords))

	writeList(&sb, "Technical skills", profile.TechnicalSkills)
	writeList(&sb, "Soft skills", profile.SoftSkills)

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top recommendations with scores and gaps.
func (p *Printer) PrintRecommendations(recs []types.CareerRecommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.Title))
		sb.WriteString(fmt.Sprintf("    Score: %d  Growth: %s\n", rec.MatchScore, rec.Growth))
		if len(rec.SkillGaps) > 0 {
			sb.WriteString(fmt.Sprintf("    Gaps: %s\n", strings.Join(rec.SkillGaps, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more roles", len(recs)-maxItemsToShow))
	}

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGaps outputs the global critical-skill gaps.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintSkillGaps(gaps []string) {
	if len(gaps) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO CRITICAL SKILL GAPS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for _, gap := range gaps {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", gap))
	}
	p.printBox("CRITICAL SKILL GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAdvisoryReport outputs the career fit score and prioritized actions.
func (p *Printer) PrintAdvisoryReport(report *types.AdvisoryReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Career fit: %d\n\n", report.CareerFit.Score))
	for _, action := range report.CareerFit.NextActions {
		sb.WriteString(fmt.Sprintf("• %s\n", action))
	}

	writeActions(&sb, "Learning priorities", report.LearningPriorities)
	writeActions(&sb, "Path strategy", report.PathStrategy)

	p.printBox("ADVISORY REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs every section of an analysis result.
func (p *Printer) PrintResult(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	p.PrintRecommendations(result.Recommendations)
	p.PrintSkillGaps(result.SkillGaps)
	p.PrintAdvisoryReport(result.AdvisoryReport)
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func writeActions(sb *strings.Builder, label string, items []types.ActionItem) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  [%s] %s (%s)\n", item.Priority, item.Title, item.Timeframe))
	}
}
