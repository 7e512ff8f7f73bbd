package models

import (
	"fmt"

	c "github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
)

type (
	// VcfHeader holds every header line verbatim (meta lines followed
	// by the #CHROM line) along with what was parsed out of them.
	VcfHeader struct {
		Lines            []string
		Columns          []string
		SampleNames      []string
		InfoDescriptions map[string]string
	}

	// VariantRecord is a single VCF data line. Raw is written back
	// untouched when the record passes the filter.
	VariantRecord struct {
		Chrom  string
		Pos    int
		Id     string
		Ref    string
		Alt    []string
		Qual   string
		Filter string
		Info   []Info
		Format []string

		// sample columns, each split by colon
		Samples [][]string

		LineNumber int
		Raw        string
	}

	Info struct {
		Id    string `json:"id"`
		Value string `json:"value"`
	}

	Genotype struct {
		Alleles []int // -1 = no call (equivalent to a '.')
		Phased  bool
		Ploidy  c.Ploidy
	}
)

// InfoValue returns the value of the first INFO entry with the given id.
func (v *VariantRecord) InfoValue(id string) (string, bool) {
	for _, info := range v.Info {
		if info.Id == id {
			return info.Value, true
		}
	}
	return "", false
}

// SampleValue returns the value of a FORMAT key for the sample at the
// given column offset. Trailing FORMAT keys may be dropped by a sample,
// which reads as absent.
func (v *VariantRecord) SampleValue(sample int, key string) (string, bool) {
	if sample < 0 || sample >= len(v.Samples) {
		return "", false
	}
	for i, f := range v.Format {
		if f != key {
			continue
		}
		values := v.Samples[sample]
		if i >= len(values) {
			return "", false
		}
		return values[i], true
	}
	return "", false
}

func (v *VariantRecord) Locus() string {
	return fmt.Sprintf("%s:%d", v.Chrom, v.Pos)
}
