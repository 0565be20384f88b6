package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/report"
	"github.com/carbocation/tshcqc/summary"
	"github.com/gorilla/mux"
)

// ReportEntry is one line of the index.
type ReportEntry struct {
	Name   string
	Pair   string
	Checks int
	Failed int
	Error  string
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	paths, err := summary.Reports(h.Global.ReportsDir)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	entries := make([]ReportEntry, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		entry := ReportEntry{Name: name, Pair: strings.TrimSuffix(name, report.Suffix)}

		rows, err := report.ReadChecks(path)
		if err != nil {
			entry.Error = err.Error()
		}
		for _, row := range rows {
			entry.Checks++
			if row.Result == checks.Fail {
				entry.Failed++
			}
		}

		entries = append(entries, entry)
	}

	output := struct {
		ReportsDir string
		Reports    []ReportEntry
	}{
		h.Global.ReportsDir,
		entries,
	}

	Render(h, w, r, h.Global.Site, "index.html", output, formatOpts(r))
}

// Summary recompiles the test-run summary on every request. Malformed
// reports are listed rather than failing the page.
func (h *handler) Summary(w http.ResponseWriter, r *http.Request) {
	tab, err := summary.Aggregate(h.Global.ReportsDir, summary.Options{Policy: summary.Skip})
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	output := struct {
		Columns []string
		Table   *summary.Table
	}{
		summary.Columns(),
		tab,
	}

	Render(h, w, r, "Test Run Summary", "summary.html", output, formatOpts(r))
}

// Report serves one stored report as written, or its checks as JSON.
func (h *handler) Report(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	path := filepath.Join(h.Global.ReportsDir, name)

	if _, err := os.Stat(path); err != nil {
		HTTPError(h, w, r, err)
		return
	}

	if formatOpts(r).OutputFormat == JSON {
		rows, err := report.ReadChecks(path)
		if err != nil {
			HTTPError(h, w, r, err)
			return
		}
		Render(h, w, r, name, "", rows, formatOpts(r))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

func (h *handler) Goroutines(w http.ResponseWriter, r *http.Request) {
	goroutines := fmt.Sprintf("%d goroutines are currently active\n", runtime.NumGoroutine())

	w.Write([]byte(goroutines))
}
