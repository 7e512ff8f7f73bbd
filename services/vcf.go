package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
	"github.com/bioinformaticsguy/sandbox-launchpad/utils"

	"github.com/brentp/vcfgo"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingColumnHeader = errors.New("vcf header has no #CHROM line")
	ErrMalformedRecord     = errors.New("malformed vcf record")
)

const minimumVcfColumns = 8

type (
	// VcfReader walks a VCF text stream line by line, keeping every
	// line verbatim so that records can be written back unchanged.
	VcfReader struct {
		reader     *bufio.Reader
		lineNumber int
		logger     *logrus.Entry

		Header *models.VcfHeader
	}
)

func NewVcfReader(r io.Reader, logger *logrus.Entry) *VcfReader {
	return &VcfReader{
		reader: bufio.NewReaderSize(r, 1<<16),
		logger: logger,
	}
}

// readLine returns the next line without its newline, or io.EOF.
func (vr *VcfReader) readLine() (string, error) {
	line, err := vr.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	vr.lineNumber++
	return strings.TrimSuffix(line, "\n"), nil
}

// ReadHeader consumes the meta lines and the #CHROM line.
func (vr *VcfReader) ReadHeader() (*models.VcfHeader, error) {
	header := &models.VcfHeader{
		InfoDescriptions: map[string]string{},
	}

	for {
		line, err := vr.readLine()
		if err == io.EOF {
			return nil, ErrMissingColumnHeader
		}
		if err != nil {
			return nil, err
		}
		header.Lines = append(header.Lines, line)

		trimmed := strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(trimmed, "#CHROM") {
			header.Columns = strings.Split(trimmed, "\t")
			break
		}
		if !strings.HasPrefix(trimmed, "#") {
			return nil, fmt.Errorf("%w: data line found first at line %d", ErrMissingColumnHeader, vr.lineNumber)
		}
	}

	// any column that is not a default VCF header is a sample id
	for _, column := range header.Columns {
		key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(column, "#", "")))
		if !utils.StringInSlice(key, constants.VcfHeaders) {
			header.SampleNames = append(header.SampleNames, column)
		}
	}

	vr.parseDeclarations(header)
	vr.Header = header

	return header, nil
}

// parseDeclarations lets vcfgo parse the ##INFO declarations. A header
// vcfgo rejects is not fatal here: the annotation schema lookup falls
// back on scanning the raw lines.
func (vr *VcfReader) parseDeclarations(header *models.VcfHeader) {
	text := strings.Join(header.Lines, "\n") + "\n"

	rdr, err := vcfgo.NewReader(strings.NewReader(text), true)
	if rdr == nil {
		vr.logger.WithError(err).Debug("vcfgo could not parse the header")
		return
	}
	if err != nil {
		vr.logger.WithError(err).Debug("vcfgo reported header issues")
	}

	for id, info := range rdr.Header.Infos {
		if info != nil {
			header.InfoDescriptions[id] = info.Description
		}
	}
}

// Read returns the next data record, or io.EOF once the stream is
// depleted. Malformed lines yield an error wrapping ErrMalformedRecord;
// reading may continue after one.
func (vr *VcfReader) Read() (*models.VariantRecord, error) {
	for {
		line, err := vr.readLine()
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		record, err := ParseRecord(trimmed, vr.lineNumber)
		if err != nil {
			return nil, err
		}
		record.Raw = line

		return record, nil
	}
}

// ParseRecord breaks up a single tab separated VCF data line.
func ParseRecord(line string, lineNumber int) (*models.VariantRecord, error) {
	// ----  break up line
	rowComponents := strings.Split(line, "\t")
	if len(rowComponents) < minimumVcfColumns {
		return nil, fmt.Errorf("%w: line %d has %d columns", ErrMalformedRecord, lineNumber, len(rowComponents))
	}

	pos, err := strconv.Atoi(strings.TrimSpace(rowComponents[1]))
	if err != nil || pos <= 0 {
		return nil, fmt.Errorf("%w: line %d has position %q", ErrMalformedRecord, lineNumber, rowComponents[1])
	}

	record := &models.VariantRecord{
		Chrom:      rowComponents[0],
		Pos:        pos,
		Id:         rowComponents[2],
		Ref:        rowComponents[3],
		Qual:       rowComponents[5],
		Filter:     rowComponents[6],
		LineNumber: lineNumber,
		Raw:        line,
	}

	// Split all alleles by comma ; a lone period means no alternate
	if alt := rowComponents[4]; alt != "." && alt != "" {
		record.Alt = strings.Split(alt, ",")
	}

	record.Info = parseInfo(rowComponents[7])

	if len(rowComponents) > minimumVcfColumns {
		// Split all formats by colon
		record.Format = strings.Split(rowComponents[8], ":")

		for _, sampleColumn := range rowComponents[minimumVcfColumns+1:] {
			record.Samples = append(record.Samples, strings.Split(sampleColumn, ":"))
		}
	}

	return record, nil
}

func parseInfo(value string) []models.Info {
	if value == "." || value == "" {
		return nil
	}

	var allInfos []models.Info

	// Split all entries by semi-colon
	for _, scSep := range strings.Split(value, ";") {
		if scSep == "" {
			continue
		}
		// values may themselves hold '=' (i.e. HGVS notation), so
		// only the first one separates the key
		id, infoValue, _ := strings.Cut(scSep, "=")
		allInfos = append(allInfos, models.Info{
			Id:    id,
			Value: infoValue,
		})
	}

	return allInfos
}
