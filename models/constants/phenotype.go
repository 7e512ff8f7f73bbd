package constants

const (
	DefaultHpoFile       = "genes_to_phenotype.txt"
	DefaultHpoId         = "HP:0000078"
	DefaultHpoJoinColumn = "SYMBOL"

	HpoAnnotatedSuffix = ".hpo_annotated.tsv"
)

// columns appended to every annotated variant row, in output order
var HpoAnnotationColumns = []string{"gene_symbol", "hpo_id", "hpo_name", "disease_id"}
