// Package qcrun drives a complete quality check of one worksheet pair, and
// of many pairs at once.
package qcrun

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/compileinfo"
	"github.com/carbocation/tshcqc/report"
	"github.com/carbocation/tshcqc/rundetails"
	"github.com/carbocation/tshcqc/worksheet"
	"golang.org/x/sync/errgroup"
)

const DefaultReadTimeout = 2 * time.Minute

// Config describes one pair run.
type Config struct {
	Worksheet1 string
	Worksheet2 string
	OutputDir  string

	Thresholds  checks.Thresholds
	ProfileName string

	// ReadTimeout bounds every spreadsheet read. Zero uses
	// DefaultReadTimeout.
	ReadTimeout time.Duration

	InspectVCFHeaders bool
}

// Outcome is what a successful run wrote.
type Outcome struct {
	Report report.Report
	Path   string
	Failed int
}

func (c Config) readTimeout() time.Duration {
	if c.ReadTimeout <= 0 {
		return DefaultReadTimeout
	}

	return c.ReadTimeout
}

func checkOutputDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return &tshcqc.ConfigurationError{Msg: "output directory " + dir + " is not usable", Err: err}
	}
	if !fi.IsDir() {
		return tshcqc.Configurationf("output path %s is not a directory", dir)
	}

	return nil
}

// Run resolves the pair's artifacts, runs every check, collects the run
// details and writes the report. Nothing is written unless every step
// succeeds.
func Run(ctx context.Context, cfg Config) (*Outcome, error) {
	pair, err := worksheet.NewPair(cfg.Worksheet1, cfg.Worksheet2)
	if err != nil {
		return nil, err
	}
	if err := checkOutputDir(cfg.OutputDir); err != nil {
		return nil, err
	}

	log.Printf("Resolving artifacts of %s and %s\n", pair.First, pair.Second)
	a, err := worksheet.Resolve(pair)
	if err != nil {
		return nil, err
	}
	log.Printf("Negative control is on worksheet %s\n", a.NegativeOwner)

	runner := checks.Runner{
		Thresholds:        cfg.Thresholds,
		ReadTimeout:       cfg.readTimeout(),
		InspectVCFHeaders: cfg.InspectVCFHeaders,
	}
	res, err := checks.Fold(ctx, runner.Plan(a)...)
	if err != nil {
		return nil, err
	}

	details := make([]rundetails.Detail, 0, 2)
	for _, r := range a.Both() {
		d, err := rundetails.Collect(ctx, r.CommandLog, r.Primary, cfg.readTimeout())
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	rep := report.New(pair.Panel(), details, res.Rows())
	rep.Profile = cfg.ProfileName
	rep.Thresholds = cfg.Thresholds.Describe()
	rep.Build = compileinfo.Get().Footer()

	path, err := report.WriteFiles(cfg.OutputDir, rep)
	if err != nil {
		return nil, fmt.Errorf("writing report for %s: %w", pair.Name(), err)
	}

	out := &Outcome{Report: rep, Path: path}
	for _, row := range rep.Rows {
		if row.Result == checks.Fail {
			out.Failed++
		}
	}
	log.Printf("Wrote %s (%d of %d checks failed)\n", path, out.Failed, len(rep.Rows))

	return out, nil
}

// RunBatch runs independent pairs with at most parallel runs in flight. The
// first error cancels the runs that have not started and is returned.
// Outcomes are in the order of cfgs.
func RunBatch(ctx context.Context, cfgs []Config, parallel int) ([]*Outcome, error) {
	if parallel < 1 {
		parallel = 1
	}

	out := make([]*Outcome, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			o, err := Run(gctx, cfg)
			if err != nil {
				return fmt.Errorf("pair %d (%s, %s): %w", i+1, cfg.Worksheet1, cfg.Worksheet2, err)
			}
			out[i] = o

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
