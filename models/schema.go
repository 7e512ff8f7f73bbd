package models

type (
	// AnnotationSchema is resolved once per input from the header and
	// shared by every record. Optional indexes are -1 when absent.
	AnnotationSchema struct {
		InfoKey string
		Fields  []string

		FrequencyField string
		FrequencyIndex int

		SeverityIndex    int
		SeverityRawIndex int

		// true only when a severity threshold was requested and the
		// severity field is part of the schema
		SeverityFilterEnabled bool

		Extras []ExtraField
	}

	ExtraField struct {
		Name  string
		Index int
	}

	FilterCriteria struct {
		AfThreshold   float64
		CaddThreshold *float64 // nil = disabled
		ExtraFields   []string
	}
)

// IndexOf returns the position of a field name in the schema, or -1.
func (s *AnnotationSchema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

func (s *AnnotationSchema) HasSeverity() bool {
	return s.SeverityIndex >= 0
}

func (s *AnnotationSchema) HasSeverityRaw() bool {
	return s.SeverityRawIndex >= 0
}

func (fc *FilterCriteria) SeverityRequested() bool {
	return fc.CaddThreshold != nil
}
