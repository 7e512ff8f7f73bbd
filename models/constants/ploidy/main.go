package ploidy

import (
	"github.com/bioinformaticsguy/sandbox-launchpad/models/constants"
)

const (
	Unknown constants.Ploidy = iota

	Haploid
	Diploid
)

func FromAlleleCount(count int) constants.Ploidy {
	switch count {
	case 1:
		return Haploid
	case 2:
		return Diploid
	default:
		return Unknown
	}
}
