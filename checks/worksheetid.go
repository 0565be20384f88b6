package checks

import (
	"path/filepath"
	"regexp"

	"github.com/carbocation/tshcqc"
)

var (
	reportWorksheet  = regexp.MustCompile(`^(\d{6})-`)
	vcfDirWorksheet  = regexp.MustCompile(`^vcfs_\w{4,7}_(\d{6})$`)
	kinshipWorksheet = regexp.MustCompile(`^(\d{6}_\d{6})\.king\.xlsx?$`)
)

func worksheetFrom(pattern *regexp.Regexp, kind, path string) (string, error) {
	m := pattern.FindStringSubmatch(filepath.Base(filepath.Clean(path)))
	if m == nil {
		return "", tshcqc.Configurationf("cannot read a worksheet id from %s %q", kind, path)
	}

	return m[1], nil
}

// ReportWorksheet reads the worksheet id that prefixes every pipeline
// spreadsheet name.
func ReportWorksheet(path string) (string, error) {
	return worksheetFrom(reportWorksheet, "report", path)
}

func VCFDirWorksheet(dir string) (string, error) {
	return worksheetFrom(vcfDirWorksheet, "VCF directory", dir)
}

// KinshipPair returns "<ws1>_<ws2>" from a kinship report name.
func KinshipPair(path string) (string, error) {
	return worksheetFrom(kinshipWorksheet, "kinship report", path)
}
