package models

// Phenotype is one row of the HPO genes_to_phenotype.txt file.
type Phenotype struct {
	NcbiGeneId string `mapstructure:"ncbi_gene_id" json:"ncbiGeneId"`
	GeneSymbol string `mapstructure:"gene_symbol" json:"geneSymbol"`
	HpoId      string `mapstructure:"hpo_id" json:"hpoId"`
	HpoName    string `mapstructure:"hpo_name" json:"hpoName"`
	Frequency  string `mapstructure:"frequency" json:"frequency"`
	DiseaseId  string `mapstructure:"disease_id" json:"diseaseId"`
}

// AnnotationValues lays out the columns appended to an annotated row,
// matching constants.HpoAnnotationColumns.
func (p *Phenotype) AnnotationValues() []string {
	return []string{p.GeneSymbol, p.HpoId, p.HpoName, p.DiseaseId}
}
