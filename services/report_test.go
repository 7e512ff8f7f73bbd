package services

import (
	"bytes"
	"testing"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/job"

	"github.com/Jeffail/gabs"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoResult() *FilterResult {
	return &FilterResult{
		InputPath: "sample.vcf.gz",
		VcfPath:   "out/sample.af0p005.cadd15p0.rare_variants.vcf",
		TsvPath:   "out/sample.af0p005.cadd15p0.rare_variants.tsv",
		Schema: &models.AnnotationSchema{
			FrequencyField:        "gnomAD_AF",
			SeverityIndex:         6,
			SeverityRawIndex:      5,
			SeverityFilterEnabled: true,
			Extras:                []models.ExtraField{{Name: "Gene", Index: 3}},
		},
		Stats: models.FilterStats{
			TotalVariants:      10,
			RareVariants:       4,
			MissingAfVariants:  1,
			FailedCaddVariants: 2,
			PassingVariants:    2,
		},
	}
}

func TestPrintFilterReport(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	PrintFilterReport(&out, demoResult(), demoFilterConfig())

	report := out.String()
	assert.Contains(t, report, "=== Filtering Results ===")
	assert.Contains(t, report, "Total variants: 10\n")
	assert.Contains(t, report, "Rare variants (AF < 0.005): 4\n")
	assert.Contains(t, report, "Variants with missing AF: 1\n")
	assert.Contains(t, report, "Variants filtered out by CADD_CADD_PHRED < 15: 2\n")
	assert.Contains(t, report, "Final variants passing all filters: 2\n")
	assert.NotContains(t, report, "Malformed")
}

func TestWriteFilterJsonReport(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteFilterJsonReport(&out, "run-1", demoResult(), demoFilterConfig()))

	parsed, err := gabs.ParseJSON(out.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "run-1", parsed.Path("runId").Data())
	assert.Equal(t, "out/sample.af0p005.cadd15p0.rare_variants.tsv", parsed.Path("outputs.tsv").Data())
	assert.Equal(t, 15.0, parsed.Path("thresholds.cadd").Data())
	assert.Equal(t, true, parsed.Path("schema.severityFilterEnabled").Data())
	assert.Equal(t, 10.0, parsed.Path("statistics.totalVariants").Data())
	assert.Equal(t, 2.0, parsed.Path("statistics.passingVariants").Data())

	t.Run("no severity threshold", func(t *testing.T) {
		cfg := models.DefaultConfig().Filter

		var out bytes.Buffer
		require.NoError(t, WriteFilterJsonReport(&out, "run-2", demoResult(), &cfg))

		parsed, err := gabs.ParseJSON(out.Bytes())
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"cadd": null`)
		assert.Nil(t, parsed.Path("thresholds.cadd").Data())
	})
}

func TestPrintAnnotationReport(t *testing.T) {
	color.NoColor = true

	done := job.NewFileJob("a.tsv")
	done.State = job.Done
	done.Rows = 3
	done.OutputPath = "out/a.hpo_annotated.tsv"

	failed := job.NewFileJob("b.tsv")
	failed.State = job.Error
	failed.Message = "join column not found"

	var out bytes.Buffer
	PrintAnnotationReport(&out, []*job.FileJob{done, failed}, "out")

	assert.Contains(t, out.String(), "a.tsv: 3 rows -> out/a.hpo_annotated.tsv\n")
	assert.Contains(t, out.String(), "b.tsv: Error join column not found\n")
	assert.Contains(t, out.String(), "All files processed. Output saved to out\n")
}
