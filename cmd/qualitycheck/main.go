// qualitycheck certifies one pair of TSHC worksheets: it checks the
// pipeline outputs of both against the QC thresholds and writes a static
// HTML report for review.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/carbocation/pfx"
	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/compileinfo"
	"github.com/carbocation/tshcqc/qcrun"
)

func main() {
	var (
		ws1, ws2, outDir string
		profile          string
		timeout          time.Duration
		inspectVCF       bool
		version          bool

		contamination, kinship, minCoverage float64
		contaminationBoundary               string
		kinshipBoundary                     string
		exons, vcfs                         int
		fastqBamPolicy                      string
	)
	flag.StringVar(&ws1, "ws1", "", "Path to the output of worksheet 1, including the <panel>_<ws>_<version> directory.")
	flag.StringVar(&ws2, "ws2", "", "Path to the output of worksheet 2, including the <panel>_<ws>_<version> directory.")
	flag.StringVar(&outDir, "out", "", "Existing directory where the HTML report is written.")
	flag.StringVar(&profile, "profile", checks.DefaultProfile, fmt.Sprintf("Threshold profile to certify against. One of: %s.", strings.Join(checks.ProfileNames(), ", ")))
	flag.Float64Var(&contamination, "contamination", 0, "(Optional) Override the VerifyBamId contamination limit, in percent.")
	flag.StringVar(&contaminationBoundary, "contamination-boundary", "", "(Optional) Override what a contamination value equal to the limit does: fail-at-limit or pass-at-limit.")
	flag.Float64Var(&kinship, "kinship", 0, "(Optional) Override the kinship limit.")
	flag.StringVar(&kinshipBoundary, "kinship-boundary", "", "(Optional) Override what a kinship value equal to the limit does: fail-at-limit or pass-at-limit.")
	flag.IntVar(&exons, "exons", 0, "(Optional) Override the number of exons expected in the negative control.")
	flag.IntVar(&vcfs, "vcfs", 0, "(Optional) Override the number of VCFs expected per worksheet.")
	flag.Float64Var(&minCoverage, "min-coverage", 0, "(Optional) Override the minimum fraction of target bases at 20x.")
	flag.StringVar(&fastqBamPolicy, "fastq-bam-policy", "", "(Optional) Override the FASTQ-BAM summary: literal or uniform.")
	flag.DurationVar(&timeout, "timeout", qcrun.DefaultReadTimeout, "Maximum time to spend reading any one spreadsheet.")
	flag.BoolVar(&inspectVCF, "inspect-vcf", false, "(Optional) Log the samples in the header of every VCF.")
	flag.BoolVar(&version, "version", false, "Print build information and exit.")
	flag.Parse()

	if version {
		fmt.Println(compileinfo.Get())
		return
	}

	if ws1 == "" || ws2 == "" || outDir == "" {
		flag.PrintDefaults()
		os.Exit(tshcqc.ExitBadInput)
	}

	log.Println(compileinfo.Get())

	th, err := thresholds(profile, overrides{
		contamination:         contamination,
		contaminationBoundary: contaminationBoundary,
		kinship:               kinship,
		kinshipBoundary:       kinshipBoundary,
		exons:                 exons,
		vcfs:                  vcfs,
		minCoverage:           minCoverage,
		fastqBamPolicy:        fastqBamPolicy,
	}, setFlags())
	if err != nil {
		log.Println(pfx.Err(err))
		os.Exit(tshcqc.ExitCode(err))
	}
	log.Printf("Certifying against %s: %s\n", profile, th.Describe())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := qcrun.Run(ctx, qcrun.Config{
		Worksheet1:        ws1,
		Worksheet2:        ws2,
		OutputDir:         outDir,
		Thresholds:        th,
		ProfileName:       profile,
		ReadTimeout:       timeout,
		InspectVCFHeaders: inspectVCF,
	})
	if err != nil {
		log.Println(pfx.Err(err))
		stop()
		os.Exit(tshcqc.ExitCode(err))
	}

	log.Printf("HTML report for worksheets %s is available at %s\n", out.Report.Stem(), out.Path)
}

func setFlags() map[string]bool {
	out := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		out[f.Name] = true
	})

	return out
}
