package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/job"
	"github.com/bioinformaticsguy/sandbox-launchpad/tests/common"

	linq "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoGenesToPhenotype = "ncbi_gene_id\tgene_symbol\thpo_id\thpo_name\tfrequency\tdisease_id\n" +
	"675\tBRCA2\tHP:0000078\tAbnormality of the genital system\t-\tOMIM:612555\n" +
	"675\tBRCA2\tHP:0003002\tBreast carcinoma\t-\tOMIM:612555\n" +
	"1080\tCFTR\tHP:0000078\tAbnormality of the genital system\t7/10\tORPHA:586\n" +
	"1080\tCFTR\tHP:0000078\tAbnormality of the genital system\t-\tOMIM:219700\n" +
	"2200\tFBN1\tHP:0001166\tArachnodactyly\t-\tOMIM:154700\n"

func demoPhenotypes(t *testing.T) []models.Phenotype {
	phenotypes, err := LoadPhenotypes(strings.NewReader(demoGenesToPhenotype))
	require.NoError(t, err)
	return phenotypes
}

func TestLoadPhenotypes(t *testing.T) {
	phenotypes := demoPhenotypes(t)

	require.Len(t, phenotypes, 5)
	assert.Equal(t, models.Phenotype{
		NcbiGeneId: "675",
		GeneSymbol: "BRCA2",
		HpoId:      "HP:0000078",
		HpoName:    "Abnormality of the genital system",
		Frequency:  "-",
		DiseaseId:  "OMIM:612555",
	}, phenotypes[0])
	assert.Equal(t, "7/10", phenotypes[2].Frequency)
}

func TestFilterByHpoIds(t *testing.T) {
	phenotypes := demoPhenotypes(t)

	t.Run("single id", func(t *testing.T) {
		filtered := FilterByHpoIds(phenotypes, []string{"HP:0000078"})

		require.Len(t, filtered, 3)
		assert.True(t, linq.From(filtered).All(func(p interface{}) bool {
			return p.(models.Phenotype).HpoId == "HP:0000078"
		}))
		// file order kept
		assert.Equal(t, "OMIM:612555", filtered[0].DiseaseId)
		assert.Equal(t, "OMIM:219700", filtered[2].DiseaseId)
	})

	t.Run("several ids", func(t *testing.T) {
		assert.Len(t, FilterByHpoIds(phenotypes, []string{"HP:0003002", "HP:0001166"}), 2)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.Empty(t, FilterByHpoIds(phenotypes, []string{"HP:9999999"}))
	})
}

func TestAnnotateTable(t *testing.T) {
	phenotypes := FilterByHpoIds(demoPhenotypes(t), []string{"HP:0000078"})

	t.Run("left join", func(t *testing.T) {
		table := "CHROM\tPOS\tSYMBOL\tgnomAD_AF\n" +
			"chr13\t100\tBRCA2\t0.001\n" +
			"chr7\t200\tCFTR\tNA\n" +
			"chr15\t300\tFBN1\t0.002\n" +
			"chr1\t400\t\t0.003\n"

		var out bytes.Buffer
		rows, err := AnnotateTable(strings.NewReader(table), &out, phenotypes, "SYMBOL")
		require.NoError(t, err)
		assert.Equal(t, 5, rows)

		assert.Equal(t, "CHROM\tPOS\tSYMBOL\tgnomAD_AF\tgene_symbol\thpo_id\thpo_name\tdisease_id\n"+
			"chr13\t100\tBRCA2\t0.001\tBRCA2\tHP:0000078\tAbnormality of the genital system\tOMIM:612555\n"+
			"chr7\t200\tCFTR\tNA\tCFTR\tHP:0000078\tAbnormality of the genital system\tORPHA:586\n"+
			"chr7\t200\tCFTR\tNA\tCFTR\tHP:0000078\tAbnormality of the genital system\tOMIM:219700\n"+
			"chr15\t300\tFBN1\t0.002\t\t\t\t\n"+
			"chr1\t400\t\t0.003\t\t\t\t\n", out.String())
	})

	t.Run("cell text kept as read", func(t *testing.T) {
		table := "SYMBOL\tHGVSc\tNote\r\n" +
			"BRCA2\t\"c.68_69del\"\t  padded\r\n" +
			"TP53\tsay \"hi\"\t\r\n"

		var out bytes.Buffer
		rows, err := AnnotateTable(strings.NewReader(table), &out, phenotypes, "SYMBOL")
		require.NoError(t, err)
		assert.Equal(t, 2, rows)

		assert.Equal(t, "SYMBOL\tHGVSc\tNote\tgene_symbol\thpo_id\thpo_name\tdisease_id\n"+
			"BRCA2\t\"c.68_69del\"\t  padded\tBRCA2\tHP:0000078\tAbnormality of the genital system\tOMIM:612555\n"+
			"TP53\tsay \"hi\"\t\t\t\t\t\n", out.String())
	})

	t.Run("missing join column", func(t *testing.T) {
		var out bytes.Buffer
		_, err := AnnotateTable(strings.NewReader("CHROM\tPOS\nchr1\t1\n"), &out, phenotypes, "SYMBOL")
		assert.ErrorIs(t, err, ErrJoinColumnMissing)
	})

	t.Run("empty table", func(t *testing.T) {
		var out bytes.Buffer
		_, err := AnnotateTable(strings.NewReader(""), &out, phenotypes, "SYMBOL")
		assert.ErrorIs(t, err, ErrJoinColumnMissing)
	})

	t.Run("header only", func(t *testing.T) {
		var out bytes.Buffer
		rows, err := AnnotateTable(strings.NewReader("CHROM\tSYMBOL\n"), &out, phenotypes, "SYMBOL")
		require.NoError(t, err)
		assert.Equal(t, 0, rows)
		assert.Equal(t, "CHROM\tSYMBOL\tgene_symbol\thpo_id\thpo_name\tdisease_id\n", out.String())
	})
}

func TestAnnotateDirectory(t *testing.T) {
	logger, _ := common.NullLogger()
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "in")
	outputDir := filepath.Join(dir, "out", "annotated")
	require.NoError(t, os.MkdirAll(inputDir, 0755))

	hpoFile := filepath.Join(dir, "genes_to_phenotype.txt")
	require.NoError(t, os.WriteFile(hpoFile, []byte(demoGenesToPhenotype), 0644))

	cfg := models.DefaultConfig().Hpo
	cfg.File = hpoFile
	cfg.Concurrency = 2

	ps := NewPhenotypeService(&cfg, logger)
	require.NoError(t, ps.Load())
	assert.Len(t, ps.Phenotypes, 3)

	t.Run("no tables", func(t *testing.T) {
		jobs, err := ps.AnnotateDirectory(inputDir, outputDir)
		assert.NoError(t, err)
		assert.Nil(t, jobs)
	})

	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "b_sample.tsv"), []byte("SYMBOL\tPOS\nBRCA2\t1\nTP53\t2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "a_broken.tsv"), []byte("GENE\tPOS\nBRCA2\t1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("ignored"), 0644))

	t.Run("every table annotated", func(t *testing.T) {
		jobs, err := ps.AnnotateDirectory(inputDir, outputDir)
		require.NoError(t, err)
		require.Len(t, jobs, 2)

		// sorted by name
		assert.Equal(t, "a_broken.tsv", jobs[0].Filename)
		assert.Equal(t, job.Error, jobs[0].State)
		assert.Contains(t, jobs[0].Message, "SYMBOL")

		assert.Equal(t, "b_sample.tsv", jobs[1].Filename)
		assert.Equal(t, job.Done, jobs[1].State)
		assert.Equal(t, 2, jobs[1].Rows)
		assert.Equal(t, filepath.Join(outputDir, "b_sample.hpo_annotated.tsv"), jobs[1].OutputPath)

		annotated, err := os.ReadFile(jobs[1].OutputPath)
		require.NoError(t, err)
		assert.Equal(t, "SYMBOL\tPOS\tgene_symbol\thpo_id\thpo_name\tdisease_id\n"+
			"BRCA2\t1\tBRCA2\tHP:0000078\tAbnormality of the genital system\tOMIM:612555\n"+
			"TP53\t2\t\t\t\t\n", string(annotated))

		_, err = os.Stat(filepath.Join(outputDir, "a_broken.hpo_annotated.tsv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
