package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/bioinformaticsguy/sandbox-launchpad/contexts"
	"github.com/bioinformaticsguy/sandbox-launchpad/models"
	"github.com/bioinformaticsguy/sandbox-launchpad/services"

	"github.com/spf13/cobra"
)

type annotateHpoOptions struct {
	inputDir    string
	outputDir   string
	hpoFile     string
	hpoIds      []string
	joinColumn  string
	concurrency int
}

func newAnnotateHpoCommand(root *rootOptions) *cobra.Command {
	opts := &annotateHpoOptions{}

	cmd := &cobra.Command{
		Use:   "annotate-hpo",
		Short: "Annotate variant TSV files with HPO information",
		Long: `Every *.tsv file of the input directory is left joined, on its SYMBOL
column, with the genes_to_phenotype rows of the requested HPO ids. The result
is written to <output_dir>/<name>.hpo_annotated.tsv with the gene_symbol,
hpo_id, hpo_name and disease_id columns appended.`,
		Example: `  vartools annotate-hpo -i filtered/ -o annotated/ --hpo_file genes_to_phenotype.txt
  vartools annotate-hpo -i filtered/ -o annotated/ --hpo_ids HP:0000078,HP:0000119`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := root.runContext(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &rc.Config.Hpo); err != nil {
				return err
			}
			if err := rc.Config.Validate(); err != nil {
				return err
			}

			return runAnnotateHpo(cmd.OutOrStdout(), rc)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputDir, "input_dir", "i", "", "Directory containing input TSV files")
	flags.StringVarP(&opts.outputDir, "output_dir", "o", "", "Directory to save annotated output files")
	flags.StringVar(&opts.hpoFile, "hpo_file", "", "Path to genes_to_phenotype.txt file")
	flags.StringSliceVar(&opts.hpoIds, "hpo_ids", nil, "List of HPO IDs to filter by (default HP:0000078)")
	flags.StringVar(&opts.joinColumn, "join_column", "", "variant table column holding the gene symbol (default SYMBOL)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "number of tables annotated at once (default 1)")

	return cmd
}

func (opts *annotateHpoOptions) apply(cmd *cobra.Command, cfg *models.HpoConfig) error {
	flags := cmd.Flags()
	if flags.Changed("input_dir") {
		cfg.InputDir = opts.inputDir
	}
	if flags.Changed("output_dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("hpo_file") {
		cfg.File = opts.hpoFile
	}
	if flags.Changed("hpo_ids") {
		cfg.Ids = opts.hpoIds
	}
	if flags.Changed("join_column") {
		cfg.JoinColumn = opts.joinColumn
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}

	if cfg.InputDir == "" {
		return errors.New("an input directory is required (--input_dir)")
	}
	if cfg.OutputDir == "" {
		return errors.New("an output directory is required (--output_dir)")
	}
	if len(cfg.Ids) == 0 {
		return errors.New("at least one HPO id is required (--hpo_ids)")
	}
	return nil
}

func runAnnotateHpo(out io.Writer, rc *contexts.RunContext) error {
	cfg := &rc.Config.Hpo

	ps := services.NewPhenotypeService(cfg, rc.Logger)
	if err := ps.Load(); err != nil {
		return err
	}

	jobs, err := ps.AnnotateDirectory(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintf(out, "No TSV files found in %s\n", cfg.InputDir)
		return nil
	}

	services.PrintAnnotationReport(out, jobs, cfg.OutputDir)
	return nil
}
