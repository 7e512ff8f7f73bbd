package common

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	yaml "gopkg.in/yaml.v2"
)

const (
	CsqFormat = "Allele|Consequence|SYMBOL|Gene|gnomAD_AF|CADD_CADD_RAW|CADD_CADD_PHRED"

	CsqHeaderLine = `##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: ` + CsqFormat + `">`
	ColumnsLine   = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tSAMPLE1"
	FormatKeys    = "GT:DP:AD:GQ:PL:RNC"
)

var DemoHeaderLines = []string{
	"##fileformat=VCFv4.2",
	`##FILTER=<ID=PASS,Description="All filters passed">`,
	`##INFO=<ID=DP,Number=1,Type=Integer,Description="Total Depth">`,
	CsqHeaderLine,
	`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
	`##FORMAT=<ID=DP,Number=1,Type=Integer,Description="Read Depth">`,
	`##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Allelic depths">`,
	`##FORMAT=<ID=GQ,Number=1,Type=Integer,Description="Genotype Quality">`,
	`##FORMAT=<ID=PL,Number=G,Type=Integer,Description="Phred-scaled genotype likelihoods">`,
	`##FORMAT=<ID=RNC,Number=2,Type=Character,Description="Reason for No Call">`,
	ColumnsLine,
}

// DemoRecordLine builds a data line carrying the given CSQ payload
// ("" leaves the INFO column without a CSQ key).
func DemoRecordLine(chrom string, pos int, ref string, alt string, csq string, sample string) string {
	info := "DP=30"
	if csq != "" {
		info += ";CSQ=" + csq
	}
	return strings.Join([]string{chrom, fmt.Sprint(pos), ".", ref, alt, "50", "PASS", info, FormatKeys, sample}, "\t")
}

// CsqEntry joins the tokens of one annotation entry, in CsqFormat order.
func CsqEntry(allele, consequence, symbol, gene, af, caddRaw, caddPhred string) string {
	return strings.Join([]string{allele, consequence, symbol, gene, af, caddRaw, caddPhred}, "|")
}

func DemoVcf(records ...string) string {
	lines := append(append([]string{}, DemoHeaderLines...), records...)
	return strings.Join(lines, "\n") + "\n"
}

// NullLogger discards log output ; the hook records the entries.
func NullLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

// WarningMessages lists the messages logged at warning level.
func WarningMessages(hook *test.Hook) []string {
	var messages []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

func InitConfig() *models.Config {
	cfg := models.DefaultConfig()

	// get this file's path
	_, filename, _, _ := runtime.Caller(0)
	folderpath := path.Dir(filename)

	// retrieve common's test.config
	f, err := os.Open(fmt.Sprintf("%s/test.config.yml", folderpath))
	if err != nil {
		processError(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		processError(err)
	}

	return cfg
}

func TestConfigPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return fmt.Sprintf("%s/test.config.yml", path.Dir(filename))
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}
