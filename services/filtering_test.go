package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/tests/common"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rareLine        = common.DemoRecordLine("chr1", 100, "A", "G", entry("0.001", "20")+","+entry("0.0001", "30"), "0/1:30:15,15:99:0,30,300:.")
	commonLine      = common.DemoRecordLine("chr1", 200, "C", "T", entry("0.3", "40"), "1/1:12:0,12:36:360,36,0:.")
	unannotatedLine = common.DemoRecordLine("chr1", 300, "G", "A", "", "0/1:8:4,4:20:.:.")
	benignLine      = common.DemoRecordLine("chr1", 400, "T", "C", entry("0.0002", "5"), "0/1:22:11,11:60:.:.")
	missingAfLine   = common.DemoRecordLine("chr2", 500, "A", "AT", entry(".", "25"), "0|1:18")
	malformedLine   = "chr2\t600\t.\tA"
)

func demoFilterConfig() *models.FilterConfig {
	cfg := models.DefaultConfig().Filter
	cadd := 15.0
	cfg.CaddThreshold = &cadd
	cfg.AdditionalFields = []string{"Gene", "NotAField"}
	return &cfg
}

func TestRun(t *testing.T) {
	logger, hook := common.NullLogger()
	input := common.DemoVcf(rareLine, commonLine, unannotatedLine, benignLine, missingAfLine, malformedLine)

	var vcfOut, tsvOut bytes.Buffer
	result, err := NewFilterService(demoFilterConfig(), logger).Run(strings.NewReader(input), &vcfOut, &tsvOut)
	require.NoError(t, err)

	t.Run("statistics", func(t *testing.T) {
		assert.Equal(t, models.FilterStats{
			TotalVariants:       5,
			UnannotatedVariants: 1,
			MalformedVariants:   1,
			RareVariants:        3,
			MissingAfVariants:   1,
			FailedCaddVariants:  1,
			PassingVariants:     2,
		}, result.Stats)
	})

	t.Run("filtered vcf", func(t *testing.T) {
		expected := common.DemoVcf(rareLine, missingAfLine)
		assert.Equal(t, expected, vcfOut.String())
	})

	t.Run("summary table", func(t *testing.T) {
		lines := strings.Split(strings.TrimSuffix(tsvOut.String(), "\n"), "\n")
		require.Len(t, lines, 3)

		assert.Equal(t, "CHROM\tPOS\tREF\tALT\tGT\tDP\tAD\tGQ\tPL\tRNC\tgnomAD_AF\tCADD_RAW\tCADD_PHRED\tGene", lines[0])
		assert.Equal(t, "chr1\t100\tA\tG\t0/1\t30\t15,15\t99\t0,30,300\tNA\t0.001\t1.5\t20\tENSG1", lines[1])
		// trailing FORMAT keys dropped by the sample
		assert.Equal(t, "chr2\t500\tA\tAT\t0|1\t18\tNA\tNA\tNA\tNA\tNA\t1.5\t25\tENSG1", lines[2])

		// same variant set in both outputs
		vcfRecords := 0
		for _, line := range strings.Split(vcfOut.String(), "\n") {
			if line != "" && !strings.HasPrefix(line, "#") {
				vcfRecords++
			}
		}
		assert.Equal(t, len(lines)-1, vcfRecords)
	})

	t.Run("unknown extra field warned once", func(t *testing.T) {
		assert.Contains(t, common.WarningMessages(hook), "Field 'NotAField' not found in CSQ")
	})

	t.Run("idempotent", func(t *testing.T) {
		var vcfAgain, tsvAgain bytes.Buffer
		_, err := NewFilterService(demoFilterConfig(), logger).Run(strings.NewReader(input), &vcfAgain, &tsvAgain)
		require.NoError(t, err)

		assert.Equal(t, vcfOut.String(), vcfAgain.String())
		assert.Equal(t, tsvOut.String(), tsvAgain.String())
	})
}

func TestRunSkipsTruncatedEntries(t *testing.T) {
	logger, _ := common.NullLogger()
	cfg := models.DefaultConfig().Filter

	trailingComma := common.DemoRecordLine("chr1", 100, "A", "G", entry("0.5", "20")+",", "0/1:30:15,15:99:0,30,300:.")
	truncated := common.DemoRecordLine("chr1", 200, "C", "T", "T|intron_variant|CFTR", "0/1:12")

	var vcfOut, tsvOut bytes.Buffer
	result, err := NewFilterService(&cfg, logger).Run(strings.NewReader(common.DemoVcf(trailingComma, truncated, rareLine)), &vcfOut, &tsvOut)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.TotalVariants)
	assert.Equal(t, 1, result.Stats.PassingVariants)
	assert.Equal(t, 0, result.Stats.MissingAfVariants)
	assert.Equal(t, common.DemoVcf(rareLine), vcfOut.String())
	assert.Len(t, strings.Split(strings.TrimSuffix(tsvOut.String(), "\n"), "\n"), 2)
}

func TestRunWithoutSeverityThreshold(t *testing.T) {
	logger, _ := common.NullLogger()
	cfg := models.DefaultConfig().Filter

	var vcfOut, tsvOut bytes.Buffer
	result, err := NewFilterService(&cfg, logger).Run(strings.NewReader(common.DemoVcf(rareLine, commonLine, benignLine)), &vcfOut, &tsvOut)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.PassingVariants)
	assert.Equal(t, 0, result.Stats.FailedCaddVariants)
	assert.False(t, result.Schema.SeverityFilterEnabled)
}

func TestRunErrors(t *testing.T) {
	logger, _ := common.NullLogger()

	t.Run("schema not found", func(t *testing.T) {
		input := "##fileformat=VCFv4.2\n" + common.ColumnsLine + "\n"

		var vcfOut, tsvOut bytes.Buffer
		_, err := NewFilterService(demoFilterConfig(), logger).Run(strings.NewReader(input), &vcfOut, &tsvOut)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("frequency field missing", func(t *testing.T) {
		cfg := demoFilterConfig()
		cfg.FrequencyField = "gnomADe_AF"

		var vcfOut, tsvOut bytes.Buffer
		_, err := NewFilterService(cfg, logger).Run(strings.NewReader(common.DemoVcf(rareLine)), &vcfOut, &tsvOut)
		assert.ErrorIs(t, err, ErrRequiredFieldMissing)
	})

	t.Run("header without columns", func(t *testing.T) {
		var vcfOut, tsvOut bytes.Buffer
		_, err := NewFilterService(demoFilterConfig(), logger).Run(strings.NewReader("##fileformat=VCFv4.2\n"), &vcfOut, &tsvOut)
		assert.ErrorIs(t, err, ErrMissingColumnHeader)
	})
}

func TestFilterFile(t *testing.T) {
	logger, _ := common.NullLogger()
	dir := t.TempDir()

	var compressed bytes.Buffer
	gw := pgzip.NewWriter(&compressed)
	_, err := gw.Write([]byte(common.DemoVcf(rareLine, commonLine)))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	inputPath := filepath.Join(dir, "sample.vcf.gz")
	require.NoError(t, os.WriteFile(inputPath, compressed.Bytes(), 0644))

	t.Run("outputs named after the thresholds", func(t *testing.T) {
		cfg := demoFilterConfig()
		cfg.OutputPrefix = filepath.Join(dir, "results") + "/"

		result, err := NewFilterService(cfg, logger).FilterFile(inputPath)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "results", "sample.af0p005.cadd15p0.rare_variants.vcf"), result.VcfPath)
		assert.Equal(t, filepath.Join(dir, "results", "sample.af0p005.cadd15p0.rare_variants.tsv"), result.TsvPath)
		assert.Equal(t, 1, result.Stats.PassingVariants)

		vcf, err := os.ReadFile(result.VcfPath)
		require.NoError(t, err)
		assert.Equal(t, common.DemoVcf(rareLine), string(vcf))
	})

	t.Run("outputs removed on failure", func(t *testing.T) {
		cfg := demoFilterConfig()
		cfg.OutputPrefix = filepath.Join(dir, "failed") + "/"
		cfg.AnnotationInfoKey = "ANN"

		_, err := NewFilterService(cfg, logger).FilterFile(inputPath)
		assert.ErrorIs(t, err, ErrSchemaNotFound)

		leftovers, _ := filepath.Glob(filepath.Join(dir, "failed", "*"))
		assert.Empty(t, leftovers)
	})

	t.Run("missing input", func(t *testing.T) {
		cfg := demoFilterConfig()
		cfg.OutputPrefix = filepath.Join(dir, "missing") + "/"

		_, err := NewFilterService(cfg, logger).FilterFile(filepath.Join(dir, "nope.vcf"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
