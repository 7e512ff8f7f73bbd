package services

import (
	"strconv"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	c "github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
	"github.com/bioinformaticsguy/sandbox-launchpad/utils"
)

// ProjectSummaryRow flattens a passing record and the annotation entry
// that made it pass.
func ProjectSummaryRow(record *models.VariantRecord, schema *models.AnnotationSchema, entry AnnotationEntry) models.SummaryRow {
	row := models.SummaryRow{
		Chrom:  utils.ValueOrNA(record.Chrom, c.NA),
		Pos:    strconv.Itoa(record.Pos),
		Ref:    utils.ValueOrNA(record.Ref, c.NA),
		Alt:    utils.ValueOrNA(strings.Join(record.Alt, ","), c.NA),
		Sample: ExtractSampleFields(record),

		Frequency:     c.NA,
		SeverityRaw:   c.NA,
		SeverityScore: c.NA,
	}

	if af, ok := entry.Get(schema.FrequencyIndex); ok && !isMissingToken(af) {
		row.Frequency = af
	}
	if schema.HasSeverityRaw() {
		row.SeverityRaw = entryValueOrNA(entry, schema.SeverityRawIndex)
	}
	if schema.HasSeverity() {
		row.SeverityScore = entryValueOrNA(entry, schema.SeverityIndex)
	}

	row.Extras = make([]string, len(schema.Extras))
	for i, extra := range schema.Extras {
		row.Extras[i] = entryValueOrNA(entry, extra.Index)
	}

	return row
}

func entryValueOrNA(entry AnnotationEntry, index int) string {
	value, ok := entry.Get(index)
	if !ok {
		return c.NA
	}
	return utils.ValueOrNA(value, c.NA)
}
