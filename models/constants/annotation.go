package constants

// Default CSQ field names as written by Ensembl VEP with the
// gnomAD and CADD plugins enabled
const (
	DefaultAnnotationInfoKey = "CSQ"
	DefaultFrequencyField    = "gnomAD_AF"
	DefaultSeverityField     = "CADD_CADD_PHRED"
	DefaultSeverityRawField  = "CADD_CADD_RAW"

	DefaultAfThreshold = 0.005
)

// Summary table columns that do not take their name from the schema
const (
	SeverityRawColumn   = "CADD_RAW"
	SeverityScoreColumn = "CADD_PHRED"
)

var SummaryCoreColumns = []string{"CHROM", "POS", "REF", "ALT", "GT", "DP", "AD", "GQ", "PL", "RNC"}
