package services

import (
	"strconv"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"

	"github.com/sirupsen/logrus"
)

type (
	// RarityPredicate decides whether a variant is kept, from its
	// annotation entries, against a resolved schema.
	RarityPredicate struct {
		Schema   *models.AnnotationSchema
		Criteria models.FilterCriteria
		Logger   *logrus.Entry
	}

	// Evaluation is the outcome for one variant. Entry is the first
	// entry, in source order, that satisfied every active criterion.
	Evaluation struct {
		Matched bool
		Entry   AnnotationEntry

		SawRare      bool
		SawMissingAf bool
		FailedCadd   bool

		UnparseableAf   int
		UnparseableCadd int
	}
)

func NewRarityPredicate(schema *models.AnnotationSchema, criteria models.FilterCriteria, logger *logrus.Entry) *RarityPredicate {
	return &RarityPredicate{
		Schema:   schema,
		Criteria: criteria,
		Logger:   logger,
	}
}

func isMissingToken(token string) bool {
	return token == "" || token == "."
}

// Evaluate walks the entries in order and stops at the first match.
// The same entry feeds both the filtered VCF and the summary row.
func (p *RarityPredicate) Evaluate(locus string, entries *AnnotationIterator) Evaluation {
	var ev Evaluation

	for {
		entry, ok := entries.Next()
		if !ok {
			return ev
		}

		// -- rarity
		afToken, present := entry.Get(p.Schema.FrequencyIndex)
		if !present {
			// truncated entry, no frequency column to read
			continue
		}
		if isMissingToken(afToken) {
			// unknown frequency counts as rare
			ev.SawMissingAf = true
		} else {
			af, err := strconv.ParseFloat(afToken, 64)
			if err != nil {
				ev.UnparseableAf++
				p.Logger.WithFields(logrus.Fields{
					"locus": locus,
					"value": afToken,
				}).Warnf("Could not parse %s value", p.Schema.FrequencyField)
				continue
			}
			if !(af < p.Criteria.AfThreshold) {
				continue
			}
		}
		ev.SawRare = true

		// -- severity
		if !p.Schema.SeverityFilterEnabled || p.Criteria.CaddThreshold == nil {
			ev.Matched = true
			ev.Entry = entry
			return ev
		}

		if p.passesSeverity(locus, entry, &ev) {
			ev.Matched = true
			ev.Entry = entry
			return ev
		}
		ev.FailedCadd = true
	}
}

func (p *RarityPredicate) passesSeverity(locus string, entry AnnotationEntry, ev *Evaluation) bool {
	token, present := entry.Get(p.Schema.SeverityIndex)
	if !present || isMissingToken(token) {
		return false
	}

	score, err := strconv.ParseFloat(token, 64)
	if err != nil {
		ev.UnparseableCadd++
		p.Logger.WithFields(logrus.Fields{
			"locus": locus,
			"value": token,
		}).Warn("Could not parse severity score")
		return false
	}

	return score >= *p.Criteria.CaddThreshold
}
