package qcrun

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/workbook"
	"github.com/gocarina/gocsv"
)

// PairingSheet is the sheet of a pairing workbook that lists test pairs.
const PairingSheet = "pair"

// PairEntry is one line of a pairing list.
type PairEntry struct {
	Worksheet1 string `csv:"Worksheet_1"`
	Worksheet2 string `csv:"Worksheet_2"`
}

// ReadPairing reads a pairing list from the "pair" sheet of a spreadsheet
// or from delimited text with any common separator. Worksheet ids are
// zero-padded to six digits.
func ReadPairing(ctx context.Context, path string) ([]PairEntry, error) {
	var (
		entries []PairEntry
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		entries, err = readPairingSheet(ctx, path)
	default:
		entries, err = readPairingText(path)
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Worksheet1, err = padWorksheet(entries[i].Worksheet1); err != nil {
			return nil, fmt.Errorf("%s pair %d: %w", path, i+1, err)
		}
		if entries[i].Worksheet2, err = padWorksheet(entries[i].Worksheet2); err != nil {
			return nil, fmt.Errorf("%s pair %d: %w", path, i+1, err)
		}
	}

	return entries, nil
}

func readPairingSheet(ctx context.Context, path string) ([]PairEntry, error) {
	t, err := workbook.ReadSheet(ctx, path, PairingSheet)
	if err != nil {
		return nil, err
	}

	first, err := t.Column("Worksheet_1")
	if err != nil {
		return nil, err
	}
	second, err := t.Column("Worksheet_2")
	if err != nil {
		return nil, err
	}

	out := make([]PairEntry, 0, len(first))
	for i := range first {
		if strings.TrimSpace(first[i]) == "" && strings.TrimSpace(second[i]) == "" {
			continue
		}
		out = append(out, PairEntry{Worksheet1: first[i], Worksheet2: second[i]})
	}

	return out, nil
}

func readPairingText(path string) ([]PairEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &tshcqc.MissingArtifactError{Msg: "cannot read pairing list " + path, Err: err}
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = tshcqc.SniffDelimiter(content)
	r.TrimLeadingSpace = true

	var out []PairEntry
	if err := gocsv.UnmarshalCSV(r, &out); err != nil {
		return nil, &tshcqc.ConfigurationError{Msg: "cannot parse pairing list " + path, Err: err}
	}

	return out, nil
}

// padWorksheet restores the leading zeros spreadsheets strip from numeric
// worksheet ids.
func padWorksheet(id string) (string, error) {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".0")
	if id == "" || len(id) > 6 || strings.Trim(id, "0123456789") != "" {
		return "", tshcqc.Configurationf("%q is not a worksheet id", id)
	}

	return strings.Repeat("0", 6-len(id)) + id, nil
}

// LocateRoot finds <base>/<ws>/<panel>_<ws>_<version>/.
func LocateRoot(base, ws string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(base, ws, "*_"+ws+"_v*"))
	if err != nil {
		return "", err
	}

	var dirs []string
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			dirs = append(dirs, m)
		}
	}

	switch len(dirs) {
	case 1:
		return dirs[0], nil
	case 0:
		return "", tshcqc.MissingArtifactf("no pipeline output for worksheet %s under %s", ws, base)
	}

	return "", tshcqc.MissingArtifactf("worksheet %s has %d pipeline outputs under %s: %s", ws, len(dirs), base, strings.Join(dirs, ", "))
}

// Configs turns a pairing list into one Config per pair whose worksheets
// both have a directory under base, copying every other setting from
// proto. Pairs with an absent worksheet directory are logged and left out.
func Configs(pairs []PairEntry, base string, proto Config) ([]Config, error) {
	out := make([]Config, 0, len(pairs))
	for _, p := range pairs {
		if !isDir(filepath.Join(base, p.Worksheet1)) || !isDir(filepath.Join(base, p.Worksheet2)) {
			log.Printf("Skipping pair %s_%s: worksheet directory not under %s\n", p.Worksheet1, p.Worksheet2, base)
			continue
		}

		root1, err := LocateRoot(base, p.Worksheet1)
		if err != nil {
			return nil, err
		}
		root2, err := LocateRoot(base, p.Worksheet2)
		if err != nil {
			return nil, err
		}

		cfg := proto
		cfg.Worksheet1, cfg.Worksheet2 = root1, root2
		out = append(out, cfg)
	}

	return out, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
