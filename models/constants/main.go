package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the variant tools and
	their associated services.
*/
type Ploidy int

// sentinel written to the summary table for any absent value
const NA string = "NA"

var VcfHeaders = []string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "info", "format"}
