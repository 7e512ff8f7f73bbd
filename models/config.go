package models

import (
	"fmt"
	"io"
	"os"

	"github.com/bioinformaticsguy/sandbox-launchpad/models/constants"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

type (
	Config struct {
		Debug  bool         `yaml:"debug" envconfig:"VARTOOLS_DEBUG"`
		Filter FilterConfig `yaml:"filter"`
		Hpo    HpoConfig    `yaml:"hpo"`
	}

	FilterConfig struct {
		AfThreshold      float64  `yaml:"afThreshold" envconfig:"VARTOOLS_AF_THRESHOLD"`
		CaddThreshold    *float64 `yaml:"caddThreshold" envconfig:"VARTOOLS_CADD_THRESHOLD"`
		AdditionalFields []string `yaml:"additionalFields" envconfig:"VARTOOLS_ADDITIONAL_FIELDS"`
		OutputPrefix     string   `yaml:"outputPrefix" envconfig:"VARTOOLS_OUTPUT_PREFIX"`

		AnnotationInfoKey string `yaml:"annotationInfoKey" envconfig:"VARTOOLS_ANNOTATION_INFO_KEY"`
		FrequencyField    string `yaml:"frequencyField" envconfig:"VARTOOLS_FREQUENCY_FIELD"`
		SeverityField     string `yaml:"severityField" envconfig:"VARTOOLS_SEVERITY_FIELD"`
		SeverityRawField  string `yaml:"severityRawField" envconfig:"VARTOOLS_SEVERITY_RAW_FIELD"`

		ShowProgress bool   `yaml:"showProgress" envconfig:"VARTOOLS_SHOW_PROGRESS"`
		ReportPath   string `yaml:"reportPath" envconfig:"VARTOOLS_REPORT_PATH"`
	}

	HpoConfig struct {
		File        string   `yaml:"file" envconfig:"VARTOOLS_HPO_FILE"`
		Ids         []string `yaml:"ids" envconfig:"VARTOOLS_HPO_IDS"`
		JoinColumn  string   `yaml:"joinColumn" envconfig:"VARTOOLS_HPO_JOIN_COLUMN"`
		InputDir    string   `yaml:"inputDir" envconfig:"VARTOOLS_HPO_INPUT_DIR"`
		OutputDir   string   `yaml:"outputDir" envconfig:"VARTOOLS_HPO_OUTPUT_DIR"`
		Concurrency int      `yaml:"concurrency" envconfig:"VARTOOLS_HPO_CONCURRENCY"`
	}
)

func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			AfThreshold:       constants.DefaultAfThreshold,
			AnnotationInfoKey: constants.DefaultAnnotationInfoKey,
			FrequencyField:    constants.DefaultFrequencyField,
			SeverityField:     constants.DefaultSeverityField,
			SeverityRawField:  constants.DefaultSeverityRawField,
		},
		Hpo: HpoConfig{
			File:        constants.DefaultHpoFile,
			Ids:         []string{constants.DefaultHpoId},
			JoinColumn:  constants.DefaultHpoJoinColumn,
			Concurrency: 1,
		},
	}
}

// LoadConfig layers the defaults, an optional yaml file and the
// VARTOOLS_* environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config %s: %w", path, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		// an empty file decodes to io.EOF ; keep the defaults
		if err := decoder.Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding config %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Filter.AfThreshold < 0 || cfg.Filter.AfThreshold >= 1 {
		return fmt.Errorf("af threshold must be in [0,1), got %v", cfg.Filter.AfThreshold)
	}
	if cfg.Filter.FrequencyField == "" {
		return fmt.Errorf("frequency field name must not be empty")
	}
	if cfg.Filter.AnnotationInfoKey == "" {
		return fmt.Errorf("annotation INFO key must not be empty")
	}
	if cfg.Hpo.Concurrency < 1 {
		return fmt.Errorf("hpo concurrency must be at least 1, got %d", cfg.Hpo.Concurrency)
	}
	return nil
}

func (fc *FilterConfig) Criteria() FilterCriteria {
	return FilterCriteria{
		AfThreshold:   fc.AfThreshold,
		CaddThreshold: fc.CaddThreshold,
		ExtraFields:   fc.AdditionalFields,
	}
}
