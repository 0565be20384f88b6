// qcsummary compiles the per-pair quality reports in a directory into one
// test-run summary. Given a pairing list it first runs the quality check
// for every listed pair.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/carbocation/pfx"
	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/compileinfo"
	"github.com/carbocation/tshcqc/qcrun"
	"github.com/carbocation/tshcqc/summary"
)

type options struct {
	reports    string
	out        string
	stylesheet string
	policy     summary.ShapePolicy

	pairing  string
	wsDir    string
	parallel int
	profile  string
}

func main() {
	var (
		o      options
		policy string
	)
	flag.StringVar(&o.reports, "reports", "", "Directory holding the <ws1>_<ws2>_quality_checks.html reports.")
	flag.StringVar(&o.out, "out", "", "(Optional) Directory for test_quality_check.html and .xlsx. Defaults to the parent of -reports.")
	flag.StringVar(&o.stylesheet, "stylesheet", "", "(Optional) Stylesheet URL to link from the summary page.")
	flag.StringVar(&policy, "on-shape-error", "abort", "What a malformed report does: abort or skip.")
	flag.StringVar(&o.pairing, "pairing", "", "(Optional) Pairing list (.xlsx/.xls with a 'pair' sheet, or delimited text) whose pairs are checked into -reports first.")
	flag.StringVar(&o.wsDir, "ws-dir", "", "Directory holding one <ws>/<panel>_<ws>_<version>/ per worksheet. Required with -pairing.")
	flag.IntVar(&o.parallel, "parallel", 1, "Number of pairs checked at once with -pairing.")
	flag.StringVar(&o.profile, "profile", checks.DefaultProfile, "Threshold profile used with -pairing.")
	flag.Parse()

	if o.reports == "" || (o.pairing != "" && o.wsDir == "") {
		flag.PrintDefaults()
		os.Exit(tshcqc.ExitBadInput)
	}

	var err error
	if o.policy, err = summary.ParseShapePolicy(policy); err != nil {
		log.Println(err)
		os.Exit(tshcqc.ExitBadInput)
	}
	if o.out == "" {
		o.out = filepath.Dir(filepath.Clean(o.reports))
	}

	log.Println(compileinfo.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil {
		log.Println(pfx.Err(err))
		stop()
		os.Exit(tshcqc.ExitCode(err))
	}
}

func run(ctx context.Context, o options) error {
	if o.pairing != "" {
		if err := checkPairs(ctx, o); err != nil {
			return err
		}
	}

	tab, err := summary.Aggregate(o.reports, summary.Options{Policy: o.policy})
	if err != nil {
		return err
	}
	log.Printf("Compiled %d test cases (%d skipped)\n", len(tab.Rows), len(tab.Skipped))

	htmlPath := filepath.Join(o.out, summary.FileName)
	f, err := os.Create(htmlPath)
	if err != nil {
		return err
	}
	if err := summary.Render(f, tab, o.stylesheet); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	xlsxPath := filepath.Join(o.out, summary.XLSXName)
	if err := summary.WriteXLSX(xlsxPath, tab); err != nil {
		return err
	}

	log.Printf("Summary written to %s and %s\n", htmlPath, xlsxPath)

	return nil
}

func checkPairs(ctx context.Context, o options) error {
	th, err := checks.Profile(o.profile)
	if err != nil {
		return &tshcqc.ConfigurationError{Msg: "-profile", Err: err}
	}

	pairs, err := qcrun.ReadPairing(ctx, o.pairing)
	if err != nil {
		return err
	}
	log.Printf("Read %d pairs from %s\n", len(pairs), o.pairing)

	cfgs, err := qcrun.Configs(pairs, o.wsDir, qcrun.Config{
		OutputDir:   o.reports,
		Thresholds:  th,
		ProfileName: o.profile,
	})
	if err != nil {
		return err
	}

	outcomes, err := qcrun.RunBatch(ctx, cfgs, o.parallel)
	if err != nil {
		return err
	}
	for _, out := range outcomes {
		log.Printf("HTML report for worksheets %s is available!\n", out.Report.Stem())
	}

	return nil
}
