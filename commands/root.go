package commands

import (
	"io"

	"github.com/bioinformaticsguy/sandbox-launchpad/contexts"
	"github.com/bioinformaticsguy/sandbox-launchpad/models"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vartools",
		Short: "Rare variant filtering and HPO annotation of VEP annotated VCFs",
		Long: `vartools bundles two steps of the variant analysis pipeline:

  filter        keep variants below a gnomAD allele frequency threshold
                (optionally above a CADD PHRED threshold) and summarize them
  annotate-hpo  join HPO phenotype and disease ids onto variant tables

Settings are read from an optional yaml file (--config), then from the
VARTOOLS_* environment variables, then from the command line.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a yaml configuration file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newFilterCommand(opts),
		newAnnotateHpoCommand(opts),
	)

	return root
}

// runContext resolves the configuration for a sub-command. Command line
// values are applied on top of it by the sub-command itself.
func (opts *rootOptions) runContext(cmd *cobra.Command) (*contexts.RunContext, error) {
	cfg, err := models.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debug
	}

	return contexts.NewRunContext(cfg, cmd.ErrOrStderr()), nil
}
