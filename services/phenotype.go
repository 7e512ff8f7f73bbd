package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/job"
	"github.com/bioinformaticsguy/sandbox-launchpad/utils"

	linq "github.com/ahmetb/go-linq"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrJoinColumnMissing = errors.New("join column not found in variant table")

type (
	PhenotypeService struct {
		Config *models.HpoConfig
		Logger *logrus.Entry

		// phenotype rows restricted to the configured HPO ids
		Phenotypes []models.Phenotype
	}
)

func NewPhenotypeService(cfg *models.HpoConfig, logger *logrus.Entry) *PhenotypeService {
	return &PhenotypeService{
		Config: cfg,
		Logger: logger,
	}
}

// LoadPhenotypes reads a tab separated genes_to_phenotype file. Every
// column is kept as text.
func LoadPhenotypes(r io.Reader) ([]models.Phenotype, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	var phenotypes []models.Phenotype
	for _, row := range df.Maps() {
		var phenotype models.Phenotype
		if err := mapstructure.Decode(row, &phenotype); err != nil {
			return nil, err
		}
		phenotypes = append(phenotypes, phenotype)
	}

	return phenotypes, nil
}

// FilterByHpoIds keeps the rows annotated with one of the given HPO ids,
// in file order.
func FilterByHpoIds(phenotypes []models.Phenotype, hpoIds []string) []models.Phenotype {
	filtered := []models.Phenotype{}
	linq.From(phenotypes).Where(func(p interface{}) bool {
		return utils.StringInSlice(p.(models.Phenotype).HpoId, hpoIds)
	}).ToSlice(&filtered)

	return filtered
}

// Load reads the configured HPO file (plain or gzipped) and keeps the
// rows for the configured HPO ids.
func (ps *PhenotypeService) Load() error {
	ps.Logger.Infof("Loading HPO annotations from %s", ps.Config.File)

	f, err := utils.OpenInput(ps.Config.File, false)
	if err != nil {
		return err
	}
	defer f.Close()

	all, err := LoadPhenotypes(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ps.Config.File, err)
	}

	ps.Phenotypes = FilterByHpoIds(all, ps.Config.Ids)
	ps.Logger.WithFields(logrus.Fields{
		"rows":     len(all),
		"selected": len(ps.Phenotypes),
		"hpoIds":   strings.Join(ps.Config.Ids, ","),
	}).Info("HPO annotations loaded")

	return nil
}

// AnnotateTable left joins the phenotypes onto a variant table on the
// join column. A variant row is repeated once per matching phenotype, or
// written once with empty annotation columns. Cells are split on tabs and
// written back as read. Returns the number of rows written, header
// excluded.
func AnnotateTable(r io.Reader, w io.Writer, phenotypes []models.Phenotype, joinColumn string) (int, error) {
	lines, err := readTableLines(r)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: empty table", ErrJoinColumnMissing)
	}

	header := strings.Split(lines[0], "\t")
	joinIndex := -1
	for i, column := range header {
		if column == joinColumn {
			joinIndex = i
			break
		}
	}
	if joinIndex == -1 {
		return 0, fmt.Errorf("%w: %s", ErrJoinColumnMissing, joinColumn)
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, strings.Split(line, "\t"))
	}

	// an empty symbol never joins
	var joinable []models.Phenotype
	linq.From(phenotypes).Where(func(p interface{}) bool {
		return p.(models.Phenotype).GeneSymbol != ""
	}).ToSlice(&joinable)

	var joined [][]string
	linq.From(rows).GroupJoin(linq.From(joinable),
		func(row interface{}) interface{} {
			cells := row.([]string)
			if joinIndex >= len(cells) {
				return ""
			}
			return cells[joinIndex]
		},
		func(p interface{}) interface{} {
			return p.(models.Phenotype).GeneSymbol
		},
		func(row interface{}, matches []interface{}) interface{} {
			return annotatedRows(row.([]string), matches)
		},
	).SelectMany(func(annotated interface{}) linq.Query {
		return linq.From(annotated)
	}).ToSlice(&joined)

	writer := bufio.NewWriter(w)
	writeLine(writer, strings.Join(append(append([]string{}, header...), constants.HpoAnnotationColumns...), "\t"))
	for _, row := range joined {
		writeLine(writer, strings.Join(row, "\t"))
	}
	if err := writer.Flush(); err != nil {
		return 0, err
	}

	return len(joined), nil
}

// readTableLines returns the non blank lines of a table, without their
// line endings.
func readTableLines(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
	}
}

func annotatedRows(row []string, matches []interface{}) [][]string {
	if len(matches) == 0 {
		empty := make([]string, len(constants.HpoAnnotationColumns))
		return [][]string{append(append([]string{}, row...), empty...)}
	}

	out := make([][]string, 0, len(matches))
	for _, m := range matches {
		phenotype := m.(models.Phenotype)
		out = append(out, append(append([]string{}, row...), phenotype.AnnotationValues()...))
	}
	return out
}

// AnnotateDirectory annotates every *.tsv table of inputDir into
// outputDir. A failing table is reported on its job and does not stop
// the others.
func (ps *PhenotypeService) AnnotateDirectory(inputDir string, outputDir string) ([]*job.FileJob, error) {
	tsvFiles, err := filepath.Glob(filepath.Join(inputDir, "*.tsv"))
	if err != nil {
		return nil, err
	}
	if len(tsvFiles) == 0 {
		ps.Logger.Infof("No TSV files found in %s", inputDir)
		return nil, nil
	}
	ps.Logger.Infof("Found %d TSV file(s) to process", len(tsvFiles))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	jobs := make([]*job.FileJob, len(tsvFiles))
	for i, tsvFile := range tsvFiles {
		jobs[i] = job.NewFileJob(filepath.Base(tsvFile))
	}

	g := new(errgroup.Group)
	g.SetLimit(ps.Config.Concurrency)

	for i, tsvFile := range tsvFiles {
		fileJob := jobs[i]
		inputPath := tsvFile

		g.Go(func() error {
			fileJob.State = job.Running
			logger := ps.Logger.WithField("file", fileJob.Filename)
			logger.Infof("Processing %s...", fileJob.Filename)

			outputPath, rows, err := ps.annotateFile(inputPath, outputDir)
			if err != nil {
				fileJob.State = job.Error
				fileJob.Message = err.Error()
				logger.WithError(err).Errorf("Error processing %s", fileJob.Filename)
				return nil
			}

			fileJob.State = job.Done
			fileJob.OutputPath = outputPath
			fileJob.Rows = rows
			logger.Infof("Annotated variants saved to %s", outputPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return jobs, err
	}

	return jobs, nil
}

func (ps *PhenotypeService) annotateFile(inputPath string, outputDir string) (string, int, error) {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(outputDir, stem+constants.HpoAnnotatedSuffix)

	in, err := os.Open(inputPath)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return "", 0, err
	}

	rows, err := AnnotateTable(in, out, ps.Phenotypes, ps.Config.JoinColumn)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outputPath)
		return "", 0, err
	}

	return outputPath, rows, nil
}
