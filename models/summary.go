package models

import (
	c "github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
)

type (
	SampleFields struct {
		Gt  string
		Dp  string
		Ad  string
		Gq  string
		Pl  string
		Rnc string
	}

	// SummaryRow is the flattened one-row-per-variant projection. Any
	// value that is absent holds constants.NA.
	SummaryRow struct {
		Chrom string
		Pos   string
		Ref   string
		Alt   string

		Sample SampleFields

		Frequency     string
		SeverityRaw   string
		SeverityScore string
		Extras        []string
	}
)

// SummaryHeader lays out the summary table columns for a resolved schema.
func SummaryHeader(schema *AnnotationSchema) []string {
	header := append([]string{}, c.SummaryCoreColumns...)
	header = append(header, schema.FrequencyField)
	if schema.HasSeverityRaw() {
		header = append(header, c.SeverityRawColumn)
	}
	if schema.HasSeverity() {
		header = append(header, c.SeverityScoreColumn)
	}
	for _, extra := range schema.Extras {
		header = append(header, extra.Name)
	}
	return header
}

// Values lays out the row in the same order as SummaryHeader.
func (r *SummaryRow) Values(schema *AnnotationSchema) []string {
	values := []string{
		r.Chrom, r.Pos, r.Ref, r.Alt,
		r.Sample.Gt, r.Sample.Dp, r.Sample.Ad, r.Sample.Gq, r.Sample.Pl, r.Sample.Rnc,
		r.Frequency,
	}
	if schema.HasSeverityRaw() {
		values = append(values, r.SeverityRaw)
	}
	if schema.HasSeverity() {
		values = append(values, r.SeverityScore)
	}
	return append(values, r.Extras...)
}
