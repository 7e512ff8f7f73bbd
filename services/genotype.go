package services

import (
	"strconv"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	c "github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
	p "github.com/bioinformaticsguy/sandbox-launchpad/models/constants/ploidy"
)

// only the first sample of a VCF is summarized
const summarizedSample = 0

// ParseGenotype reads a GT value such as "0/1", "1|0", "./1" or "1".
// Uncalled alleles ('.') and unknown characters are stored as -1.
func ParseGenotype(gtString string) (models.Genotype, bool) {
	if gtString == "" {
		return models.Genotype{}, false
	}

	// -- phase
	phased := strings.Contains(gtString, "|")

	alleleStringSplits := strings.FieldsFunc(gtString, func(r rune) bool {
		return r == '|' || r == '/'
	})
	if len(alleleStringSplits) == 0 {
		return models.Genotype{}, false
	}

	// -- alleles
	alleles := make([]int, len(alleleStringSplits))
	for i, a := range alleleStringSplits {
		allele, err := strconv.Atoi(a)
		if err != nil {
			// '.' or an unknown character
			allele = -1
		}
		alleles[i] = allele
	}

	return models.Genotype{
		Alleles: alleles,
		Phased:  phased,
		Ploidy:  p.FromAlleleCount(len(alleles)),
	}, true
}

// FormatGenotype writes a single index for a haploid call and joins
// the alleles with '/' or '|' otherwise.
func FormatGenotype(gt models.Genotype) string {
	separator := "/"
	if gt.Phased {
		separator = "|"
	}

	switch gt.Ploidy {
	case p.Haploid:
		return strconv.Itoa(gt.Alleles[0])
	case p.Diploid:
		return strconv.Itoa(gt.Alleles[0]) + separator + strconv.Itoa(gt.Alleles[1])
	default:
		alleleStrings := make([]string, len(gt.Alleles))
		for i, allele := range gt.Alleles {
			alleleStrings[i] = strconv.Itoa(allele)
		}
		return strings.Join(alleleStrings, separator)
	}
}

// ExtractSampleFields pulls GT, DP, AD, GQ, PL and RNC for the first
// sample. Absent keys, missing sample columns and '.' values give NA.
func ExtractSampleFields(record *models.VariantRecord) models.SampleFields {
	fields := models.SampleFields{
		Gt:  c.NA,
		Dp:  firstSampleValue(record, "DP"),
		Ad:  listSampleValue(record, "AD"),
		Gq:  firstSampleValue(record, "GQ"),
		Pl:  listSampleValue(record, "PL"),
		Rnc: listSampleValue(record, "RNC"),
	}

	if gtString, ok := record.SampleValue(summarizedSample, "GT"); ok {
		if gt, ok := ParseGenotype(gtString); ok {
			fields.Gt = FormatGenotype(gt)
		}
	}

	return fields
}

// firstSampleValue stringifies the first value of a per-sample key.
func firstSampleValue(record *models.VariantRecord, key string) string {
	value, ok := record.SampleValue(summarizedSample, key)
	if !ok {
		return c.NA
	}
	first, _, _ := strings.Cut(value, ",")
	if isMissingToken(first) {
		return c.NA
	}
	return first
}

// listSampleValue keeps the comma separated values of a per-sample key.
func listSampleValue(record *models.VariantRecord, key string) string {
	value, ok := record.SampleValue(summarizedSample, key)
	if !ok || isMissingToken(value) {
		return c.NA
	}
	return value
}
