package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/utils"

	"github.com/sirupsen/logrus"
)

type (
	FilterService struct {
		Config *models.FilterConfig
		Logger *logrus.Entry
	}

	FilterResult struct {
		InputPath string
		VcfPath   string
		TsvPath   string

		Schema *models.AnnotationSchema
		Stats  models.FilterStats
	}
)

func NewFilterService(cfg *models.FilterConfig, logger *logrus.Entry) *FilterService {
	return &FilterService{
		Config: cfg,
		Logger: logger,
	}
}

// FilterFile runs the filter over a VCF (plain or gzipped) and writes the
// filtered VCF and the summary table next to the configured prefix. On
// failure the partially written outputs are removed.
func (fs *FilterService) FilterFile(inputPath string) (result *FilterResult, err error) {
	vcfPath, tsvPath := utils.RareVariantOutputPaths(fs.Config.OutputPrefix, inputPath, fs.Config.AfThreshold, fs.Config.CaddThreshold)

	input, err := utils.OpenInput(inputPath, fs.Config.ShowProgress)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer input.Close()

	vcfFile, err := utils.CreateOutput(vcfPath)
	if err != nil {
		return nil, err
	}
	tsvFile, err := utils.CreateOutput(tsvPath)
	if err != nil {
		vcfFile.Close()
		os.Remove(vcfPath)
		return nil, err
	}

	defer func() {
		for _, f := range []*os.File{vcfFile, tsvFile} {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
				result = nil
			}
		}
		if err != nil {
			os.Remove(vcfPath)
			os.Remove(tsvPath)
		}
	}()

	fs.Logger.Infof("Output VCF: %s", vcfPath)
	fs.Logger.Infof("Output TSV: %s", tsvPath)

	result, err = fs.Run(input, vcfFile, tsvFile)
	if err != nil {
		return nil, err
	}
	result.InputPath = inputPath
	result.VcfPath = vcfPath
	result.TsvPath = tsvPath

	return result, nil
}

// Run is the single pass over a VCF stream: header lines are copied to
// vcfOut, and every variant with a matching annotation entry is written
// verbatim to vcfOut and summarized as one row of tsvOut.
func (fs *FilterService) Run(input io.Reader, vcfOut io.Writer, tsvOut io.Writer) (*FilterResult, error) {
	infoKey := fs.Config.AnnotationInfoKey

	reader := NewVcfReader(input, fs.Logger)
	header, err := reader.ReadHeader()
	if err != nil {
		return nil, err
	}

	fields, err := DiscoverSchema(header, infoKey)
	if err != nil {
		return nil, err
	}
	fs.Logger.Debugf("%s format: %s", infoKey, strings.Join(fields, "|"))

	schema, err := ResolveSchema(fields, fs.Config, fs.Logger)
	if err != nil {
		return nil, err
	}
	predicate := NewRarityPredicate(schema, fs.Config.Criteria(), fs.Logger)

	vcfWriter := bufio.NewWriter(vcfOut)
	tsvWriter := bufio.NewWriter(tsvOut)

	// ---- headers
	for _, line := range header.Lines {
		writeLine(vcfWriter, line)
	}
	writeLine(tsvWriter, strings.Join(models.SummaryHeader(schema), "\t"))

	result := &FilterResult{Schema: schema}
	stats := &result.Stats

	// ---- records
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if errors.Is(err, ErrMalformedRecord) {
			stats.MalformedVariants++
			fs.Logger.WithError(err).Warn("Skipping malformed record")
			continue
		}
		if err != nil {
			return nil, err
		}

		stats.TotalVariants++

		payload, ok := record.InfoValue(infoKey)
		if !ok || payload == "" {
			stats.UnannotatedVariants++
			continue
		}

		ev := predicate.Evaluate(record.Locus(), ParseAnnotations(payload))
		tally(stats, &ev)
		if !ev.Matched {
			continue
		}

		writeLine(vcfWriter, record.Raw)

		row := ProjectSummaryRow(record, schema, ev.Entry)
		writeLine(tsvWriter, strings.Join(row.Values(schema), "\t"))
	}

	if err := vcfWriter.Flush(); err != nil {
		return nil, err
	}
	if err := tsvWriter.Flush(); err != nil {
		return nil, err
	}

	return result, nil
}

func tally(stats *models.FilterStats, ev *Evaluation) {
	stats.UnparseableAfTokens += ev.UnparseableAf
	stats.UnparseableCaddTokens += ev.UnparseableCadd

	if ev.SawRare {
		stats.RareVariants++
	}
	if ev.SawMissingAf {
		stats.MissingAfVariants++
	}
	if ev.Matched {
		stats.PassingVariants++
	} else if ev.FailedCadd {
		stats.FailedCaddVariants++
	}
}

// writeLine ignores the error ; bufio keeps it and returns it on Flush
func writeLine(w *bufio.Writer, line string) {
	w.WriteString(line)
	w.WriteByte('\n')
}
