package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/contexts"
	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/services"
	"github.com/bioinformaticsguy/sandbox-launchpad/utils"

	"github.com/spf13/cobra"
)

type filterOptions struct {
	afThreshold      float64
	caddThreshold    float64
	additionalFields []string
	outputPrefix     string

	infoKey          string
	frequencyField   string
	severityField    string
	severityRawField string

	showProgress bool
	reportPath   string
}

func newFilterCommand(root *rootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <input_vcf> <output_prefix> [af_threshold] [cadd_threshold] [additional_fields]",
		Short: "Filter variants by gnomAD_AF in the CSQ field, optionally by CADD_PHRED",
		Long: `Writes the variants having at least one CSQ entry with gnomAD_AF below the
threshold (a missing AF counts as rare) to <prefix><name>.af<thr>.<cadd>.rare_variants.vcf,
and a one row per variant summary to the matching .tsv.

  input_vcf          Input VCF file (can be .vcf or .vcf.gz)
  output_prefix      Prefix for output files
  af_threshold       gnomAD allele frequency threshold (default: 0.005)
  cadd_threshold     CADD_PHRED score threshold (optional, e.g., 15)
  additional_fields  Comma-separated list of CSQ fields to extract (e.g., 'Gene,Consequence,SYMBOL')`,
		Example: `  vartools filter input.vcf.gz output
  vartools filter input.vcf.gz output 0.005
  vartools filter input.vcf.gz output 0.005 15
  vartools filter input.vcf.gz output 0.005 15 'Gene,Consequence,SYMBOL,gnomAD_AC,gnomAD_AN'`,
		Args: cobra.RangeArgs(2, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := root.runContext(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, args, &rc.Config.Filter); err != nil {
				return err
			}
			if err := rc.Config.Validate(); err != nil {
				return err
			}

			return runFilter(cmd.OutOrStdout(), rc, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.afThreshold, "af", 0, "gnomAD allele frequency threshold (default 0.005)")
	flags.Float64Var(&opts.caddThreshold, "cadd", 0, "CADD_PHRED score threshold (disabled unless set)")
	flags.StringSliceVar(&opts.additionalFields, "fields", nil, "CSQ fields to add to the summary table")
	flags.StringVar(&opts.infoKey, "info-key", "", "INFO key holding the annotation (default CSQ)")
	flags.StringVar(&opts.frequencyField, "frequency-field", "", "CSQ field holding the population allele frequency (default gnomAD_AF)")
	flags.StringVar(&opts.severityField, "severity-field", "", "CSQ field holding the severity score (default CADD_CADD_PHRED)")
	flags.StringVar(&opts.severityRawField, "severity-raw-field", "", "CSQ field holding the raw severity score (default CADD_CADD_RAW)")
	flags.BoolVar(&opts.showProgress, "progress", false, "draw a progress bar while reading the input")
	flags.StringVar(&opts.reportPath, "report", "", "write a JSON run report to this path")

	return cmd
}

// apply layers the explicitly set flags, then the positional arguments,
// over the loaded configuration.
func (opts *filterOptions) apply(cmd *cobra.Command, args []string, cfg *models.FilterConfig) error {
	flags := cmd.Flags()
	if flags.Changed("af") {
		cfg.AfThreshold = opts.afThreshold
	}
	if flags.Changed("cadd") {
		cadd := opts.caddThreshold
		cfg.CaddThreshold = &cadd
	}
	if flags.Changed("fields") {
		cfg.AdditionalFields = opts.additionalFields
	}
	if flags.Changed("info-key") {
		cfg.AnnotationInfoKey = opts.infoKey
	}
	if flags.Changed("frequency-field") {
		cfg.FrequencyField = opts.frequencyField
	}
	if flags.Changed("severity-field") {
		cfg.SeverityField = opts.severityField
	}
	if flags.Changed("severity-raw-field") {
		cfg.SeverityRawField = opts.severityRawField
	}
	if flags.Changed("progress") {
		cfg.ShowProgress = opts.showProgress
	}
	if flags.Changed("report") {
		cfg.ReportPath = opts.reportPath
	}

	cfg.OutputPrefix = args[1]
	if len(args) > 2 {
		af, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid af_threshold %q: %w", args[2], err)
		}
		cfg.AfThreshold = af
	}
	if len(args) > 3 {
		cadd, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid cadd_threshold %q: %w", args[3], err)
		}
		cfg.CaddThreshold = &cadd
	}
	if len(args) > 4 {
		cfg.AdditionalFields = utils.SplitCommaList(args[4])
	}

	return nil
}

func runFilter(out io.Writer, rc *contexts.RunContext, inputVcf string) error {
	cfg := &rc.Config.Filter

	if _, err := os.Stat(inputVcf); err != nil {
		return fmt.Errorf("input VCF: %w", err)
	}

	fmt.Fprintf(out, "Input VCF: %s\n", inputVcf)
	fmt.Fprintf(out, "Output prefix: %s\n", cfg.OutputPrefix)
	fmt.Fprintf(out, "%s threshold: < %v\n", cfg.FrequencyField, cfg.AfThreshold)
	if cfg.CaddThreshold != nil {
		fmt.Fprintf(out, "%s threshold: >= %v\n", cfg.SeverityField, *cfg.CaddThreshold)
	} else {
		fmt.Fprintf(out, "%s threshold: Not applied\n", cfg.SeverityField)
	}
	if len(cfg.AdditionalFields) > 0 {
		fmt.Fprintf(out, "Additional %s fields to extract: %s\n", cfg.AnnotationInfoKey, strings.Join(cfg.AdditionalFields, ", "))
	}
	fmt.Fprintln(out)

	fs := services.NewFilterService(cfg, rc.Logger.WithField("input", inputVcf))
	result, err := fs.FilterFile(inputVcf)
	if err != nil {
		return err
	}

	services.PrintFilterReport(out, result, cfg)

	if cfg.ReportPath != "" {
		f, err := utils.CreateOutput(cfg.ReportPath)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := services.WriteFilterJsonReport(f, rc.RunId.String(), result, cfg); err != nil {
			return err
		}
	}

	return nil
}
