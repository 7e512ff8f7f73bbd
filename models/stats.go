package models

// FilterStats accumulates the per-run counters of a filter run.
type FilterStats struct {
	TotalVariants       int `json:"totalVariants"`
	UnannotatedVariants int `json:"unannotatedVariants"`
	MalformedVariants   int `json:"malformedVariants"`

	// variants with at least one entry below the AF threshold (or missing AF)
	RareVariants int `json:"rareVariants"`
	// variants with at least one entry whose AF is empty or '.'
	MissingAfVariants int `json:"missingAfVariants"`
	// rare variants whose rare entries all failed the CADD check
	FailedCaddVariants int `json:"failedCaddVariants"`
	PassingVariants    int `json:"passingVariants"`

	UnparseableAfTokens   int `json:"unparseableAfTokens"`
	UnparseableCaddTokens int `json:"unparseableCaddTokens"`
}
