package services

import (
	"fmt"
	"io"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/job"

	"github.com/Jeffail/gabs"
	"github.com/fatih/color"
)

var heading = color.New(color.FgCyan, color.Bold).SprintFunc()

// PrintFilterReport writes the end-of-run statistics to the console.
func PrintFilterReport(w io.Writer, result *FilterResult, cfg *models.FilterConfig) {
	stats := result.Stats

	fmt.Fprintf(w, "\n%s\n", heading("=== Filtering Results ==="))
	fmt.Fprintf(w, "Total variants: %d\n", stats.TotalVariants)
	fmt.Fprintf(w, "Rare variants (AF < %v): %d\n", cfg.AfThreshold, stats.RareVariants)
	fmt.Fprintf(w, "Variants with missing AF: %d\n", stats.MissingAfVariants)
	if result.Schema != nil && result.Schema.SeverityFilterEnabled {
		fmt.Fprintf(w, "Variants filtered out by %s < %v: %d\n", cfg.SeverityField, *cfg.CaddThreshold, stats.FailedCaddVariants)
	}
	if stats.UnannotatedVariants > 0 {
		fmt.Fprintf(w, "Variants without %s annotation: %d\n", cfg.AnnotationInfoKey, stats.UnannotatedVariants)
	}
	if stats.MalformedVariants > 0 {
		fmt.Fprintf(w, "Malformed records skipped: %d\n", stats.MalformedVariants)
	}
	fmt.Fprintf(w, "Final variants passing all filters: %d\n", stats.PassingVariants)
	if result.VcfPath != "" {
		fmt.Fprintf(w, "Output vcf: %s\n", result.VcfPath)
	}
	if result.TsvPath != "" {
		fmt.Fprintf(w, "Summary table: %s\n", result.TsvPath)
	}
}

// WriteFilterJsonReport writes a machine readable report of a filter run.
func WriteFilterJsonReport(w io.Writer, runId string, result *FilterResult, cfg *models.FilterConfig) error {
	report := gabs.New()

	report.Set(runId, "runId")
	report.Set(result.InputPath, "input")
	report.Set(result.VcfPath, "outputs", "vcf")
	report.Set(result.TsvPath, "outputs", "tsv")

	report.Set(cfg.AfThreshold, "thresholds", "af")
	if cfg.CaddThreshold != nil {
		report.Set(*cfg.CaddThreshold, "thresholds", "cadd")
	} else {
		report.Set(nil, "thresholds", "cadd")
	}

	if result.Schema != nil {
		report.Set(result.Schema.FrequencyField, "schema", "frequencyField")
		report.Set(result.Schema.SeverityFilterEnabled, "schema", "severityFilterEnabled")
		extras := make([]string, len(result.Schema.Extras))
		for i, extra := range result.Schema.Extras {
			extras[i] = extra.Name
		}
		report.Set(extras, "schema", "extraFields")
	}

	stats := result.Stats
	report.Set(stats.TotalVariants, "statistics", "totalVariants")
	report.Set(stats.UnannotatedVariants, "statistics", "unannotatedVariants")
	report.Set(stats.MalformedVariants, "statistics", "malformedVariants")
	report.Set(stats.RareVariants, "statistics", "rareVariants")
	report.Set(stats.MissingAfVariants, "statistics", "missingAfVariants")
	report.Set(stats.FailedCaddVariants, "statistics", "failedCaddVariants")
	report.Set(stats.PassingVariants, "statistics", "passingVariants")
	report.Set(stats.UnparseableAfTokens, "statistics", "unparseableAfTokens")
	report.Set(stats.UnparseableCaddTokens, "statistics", "unparseableCaddTokens")

	_, err := io.WriteString(w, report.StringIndent("", "  ")+"\n")
	return err
}

// PrintAnnotationReport summarizes an HPO annotation run.
func PrintAnnotationReport(w io.Writer, jobs []*job.FileJob, outputDir string) {
	fmt.Fprintf(w, "\n%s\n", heading("=== HPO Annotation Results ==="))
	for _, j := range jobs {
		switch j.State {
		case job.Done:
			fmt.Fprintf(w, "%s: %d rows -> %s\n", j.Filename, j.Rows, j.OutputPath)
		default:
			fmt.Fprintf(w, "%s: %s %s\n", j.Filename, j.State, j.Message)
		}
	}
	fmt.Fprintf(w, "All files processed. Output saved to %s\n", outputDir)
}
