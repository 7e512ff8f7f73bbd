package utils

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

const rareVariantsSuffix = ".rare_variants"

// InputBasename strips the directory and up to two extensions
// ("sample.vcf.gz" and "sample.vcf" both give "sample").
func InputBasename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(base, ".vcf") {
		base = strings.TrimSuffix(base, ".vcf")
	}
	return base
}

// FormatThreshold renders a threshold the way it appears in output
// names: always with a fractional part ("15.0", "0.005").
func FormatThreshold(value float64) string {
	var s string
	if value != 0 && math.Abs(value) < 1e-4 {
		s = strconv.FormatFloat(value, 'g', -1, 64)
	} else {
		s = strconv.FormatFloat(value, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// ThresholdSuffix encodes the thresholds into a file name suffix, with
// dots replaced by 'p' to avoid extra extensions.
func ThresholdSuffix(afThreshold float64, caddThreshold *float64) string {
	afStr := strings.ReplaceAll("af"+FormatThreshold(afThreshold), ".", "p")
	caddStr := "noCADD"
	if caddThreshold != nil {
		caddStr = strings.ReplaceAll("cadd"+FormatThreshold(*caddThreshold), ".", "p")
	}
	return fmt.Sprintf(".%s.%s", afStr, caddStr)
}

// RareVariantOutputPaths returns the filtered VCF and summary TSV paths
// for an input file. The prefix is used as is, so "out/" writes into a
// directory while "out/run1_" prefixes the file names.
func RareVariantOutputPaths(prefix string, inputPath string, afThreshold float64, caddThreshold *float64) (vcfPath string, tsvPath string) {
	stem := prefix + InputBasename(inputPath) + ThresholdSuffix(afThreshold, caddThreshold) + rareVariantsSuffix
	return stem + ".vcf", stem + ".tsv"
}
