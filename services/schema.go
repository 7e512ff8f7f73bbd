package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"

	"github.com/sirupsen/logrus"
)

var (
	ErrSchemaNotFound       = errors.New("annotation format not found in vcf header")
	ErrRequiredFieldMissing = errors.New("required field not found in annotation format")
)

const formatMarker = "Format: "

// DiscoverSchema returns the ordered annotation field names declared for
// the given INFO key, i.e. the pipe separated list following "Format: "
// in a VEP style CSQ declaration.
func DiscoverSchema(header *models.VcfHeader, infoKey string) ([]string, error) {
	// -- declarations parsed by vcfgo
	if description, ok := header.InfoDescriptions[infoKey]; ok {
		if fields, ok := fieldsFromFormat(description); ok {
			return fields, nil
		}
	}

	// -- raw header lines
	declaration := fmt.Sprintf("##INFO=<ID=%s,", infoKey)
	for _, line := range header.Lines {
		if !strings.HasPrefix(line, declaration) {
			continue
		}
		if fields, ok := fieldsFromFormat(line); ok {
			return fields, nil
		}
	}

	return nil, fmt.Errorf("%w: INFO/%s", ErrSchemaNotFound, infoKey)
}

func fieldsFromFormat(text string) ([]string, bool) {
	start := strings.Index(text, formatMarker)
	if start == -1 {
		return nil, false
	}
	body := text[start+len(formatMarker):]

	// a raw declaration line closes with `">`, a parsed description
	// is already unquoted
	if end := strings.Index(body, `">`); end != -1 {
		body = body[:end]
	}
	body = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), `"`))
	if body == "" {
		return nil, false
	}

	return strings.Split(body, "|"), true
}

// ResolveSchema looks up, once, the positions of every field the filter
// and the summary table need.
func ResolveSchema(fields []string, cfg *models.FilterConfig, logger *logrus.Entry) (*models.AnnotationSchema, error) {
	schema := &models.AnnotationSchema{
		InfoKey:        cfg.AnnotationInfoKey,
		Fields:         fields,
		FrequencyField: cfg.FrequencyField,
	}

	// -- frequency (required)
	schema.FrequencyIndex = schema.IndexOf(cfg.FrequencyField)
	if schema.FrequencyIndex == -1 {
		return nil, fmt.Errorf("%w: %s", ErrRequiredFieldMissing, cfg.FrequencyField)
	}
	logger.Debugf("%s index: %d", cfg.FrequencyField, schema.FrequencyIndex)

	// -- severity (optional)
	schema.SeverityIndex = -1
	if cfg.SeverityField != "" {
		schema.SeverityIndex = schema.IndexOf(cfg.SeverityField)
	}
	schema.SeverityRawIndex = -1
	if cfg.SeverityRawField != "" {
		schema.SeverityRawIndex = schema.IndexOf(cfg.SeverityRawField)
	}

	if cfg.CaddThreshold != nil {
		if schema.HasSeverity() {
			schema.SeverityFilterEnabled = true
			logger.Infof("Filtering on %s >= %v", cfg.SeverityField, *cfg.CaddThreshold)
		} else {
			logger.Warnf("%s not found in %s fields, skipping severity filtering", cfg.SeverityField, cfg.AnnotationInfoKey)
		}
	}

	// -- extra fields, dropped with a warning when unknown
	for _, name := range cfg.AdditionalFields {
		index := schema.IndexOf(name)
		if index == -1 {
			logger.Warnf("Field '%s' not found in %s", name, cfg.AnnotationInfoKey)
			continue
		}
		schema.Extras = append(schema.Extras, models.ExtraField{Name: name, Index: index})
	}

	return schema, nil
}
