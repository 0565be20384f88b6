package worksheet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/tshcqc"
)

const (
	// NegativeMarker appears in the file name of the negative-control report.
	NegativeMarker = "Neg"

	// FastqBamMarker appears in the file name of the FASTQ/BAM read-count
	// comparison report.
	FastqBamMarker = "fastq-bam-check"
)

// Reports is what the pipeline writes for one worksheet.
type Reports struct {
	Worksheet Worksheet

	// Primary is the sample results workbook.
	Primary string
	// FastqBam is the read-count comparison workbook.
	FastqBam string
	// VCFDir holds one VCF per sample.
	VCFDir string
	// CommandLog records how the pipeline was invoked.
	CommandLog string
}

// Artifacts is every input the checks of one worksheet pair need.
type Artifacts struct {
	Pair     Pair
	First    Reports
	Second   Reports
	Negative string
	// NegativeOwner is the id of the worksheet that holds the negative
	// control.
	NegativeOwner string
	Kinship       string
}

func (a Artifacts) Both() []Reports {
	return []Reports{a.First, a.Second}
}

func ExcelReportsDir(ws Worksheet) string {
	return filepath.Join(ws.Root, fmt.Sprintf("excel_reports_%s_%s", ws.Panel, ws.ID))
}

func VCFDir(ws Worksheet) string {
	return filepath.Join(ws.Root, fmt.Sprintf("vcfs_%s_%s", ws.Panel, ws.ID))
}

func CommandLog(ws Worksheet) string {
	return filepath.Join(ws.Root, ws.ID+".commandline_usage_logfile")
}

// KinshipReport lives under the first worksheet and is named after both.
func KinshipReport(p Pair) string {
	return filepath.Join(p.First.Root, p.Name()+".king.xlsx")
}

type listing struct {
	primary, negative, fastqBam []string
}

// classify sorts the files of an excel_reports directory into the three
// disjoint report kinds.
func classify(names []string) listing {
	var l listing
	for _, name := range names {
		switch {
		case strings.Contains(name, NegativeMarker):
			l.negative = append(l.negative, name)
		case strings.Contains(name, FastqBamMarker):
			l.fastqBam = append(l.fastqBam, name)
		default:
			l.primary = append(l.primary, name)
		}
	}

	return l
}

func listReports(ws Worksheet) (listing, error) {
	dir := ExcelReportsDir(ws)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return listing{}, &tshcqc.MissingArtifactError{Msg: fmt.Sprintf("cannot list excel reports of worksheet %s", ws.ID), Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		// Skip subdirectories and the lock files spreadsheet editors leave
		// next to open workbooks
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return classify(names), nil
}

func exactlyOne(ws Worksheet, kind string, names []string) (string, error) {
	switch len(names) {
	case 1:
		return filepath.Join(ExcelReportsDir(ws), names[0]), nil
	case 0:
		return "", tshcqc.MissingArtifactf("worksheet %s has no %s in %s", ws.ID, kind, ExcelReportsDir(ws))
	}

	return "", tshcqc.MissingArtifactf("worksheet %s has %d candidate %ss, expected one: %s", ws.ID, len(names), kind, strings.Join(names, ", "))
}

// Resolve lists the excel_reports directory of each worksheet once and
// derives every other artifact path from the naming convention. Any absent
// or ambiguous report fails the whole resolution.
func Resolve(p Pair) (Artifacts, error) {
	out := Artifacts{Pair: p, Kinship: KinshipReport(p)}

	var negatives []string
	for i, ws := range p.Both() {
		l, err := listReports(ws)
		if err != nil {
			return Artifacts{}, err
		}

		r := Reports{
			Worksheet:  ws,
			VCFDir:     VCFDir(ws),
			CommandLog: CommandLog(ws),
		}
		if r.Primary, err = exactlyOne(ws, "primary sample report", l.primary); err != nil {
			return Artifacts{}, err
		}
		if r.FastqBam, err = exactlyOne(ws, "fastq-bam-check report", l.fastqBam); err != nil {
			return Artifacts{}, err
		}

		if len(l.negative) > 0 {
			neg, err := exactlyOne(ws, "negative-control report", l.negative)
			if err != nil {
				return Artifacts{}, err
			}
			negatives = append(negatives, neg)
			out.Negative = neg
			out.NegativeOwner = ws.ID
		}

		if i == 0 {
			out.First = r
		} else {
			out.Second = r
		}
	}

	switch len(negatives) {
	case 0:
		return Artifacts{}, tshcqc.MissingArtifactf("the negative sample is not present in worksheet %s or %s", p.First.ID, p.Second.ID)
	case 2:
		return Artifacts{}, tshcqc.MissingArtifactf("both worksheets %s and %s carry a negative-control report; expected exactly one", p.First.ID, p.Second.ID)
	}

	return out, nil
}
