package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
)

// WriteFiles writes the HTML report and its TSV intermediate into dir and
// returns the HTML path. Both files are staged under temporary names and
// renamed into place, so a failed write leaves neither behind.
func WriteFiles(dir string, r Report) (string, error) {
	var page, tsv bytes.Buffer
	if err := Render(&page, r); err != nil {
		return "", err
	}
	if err := WriteTSV(&tsv, r.Rows); err != nil {
		return "", fmt.Errorf("writing checks table: %w", err)
	}

	tsvTmp, err := stage(dir, r.TSVName(), &tsv)
	if err != nil {
		return "", err
	}
	htmlTmp, err := stage(dir, r.FileName(), &page)
	if err != nil {
		os.Remove(tsvTmp)
		return "", err
	}

	tsvPath := filepath.Join(dir, r.TSVName())
	htmlPath := filepath.Join(dir, r.FileName())
	if err := os.Rename(tsvTmp, tsvPath); err != nil {
		os.Remove(tsvTmp)
		os.Remove(htmlTmp)
		return "", err
	}
	if err := os.Rename(htmlTmp, htmlPath); err != nil {
		os.Remove(tsvPath)
		os.Remove(htmlTmp)
		return "", err
	}

	return htmlPath, nil
}

func stage(dir, name string, content io.Reader) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

// ReadChecks loads the checks table of the report at htmlPath, preferring
// the TSV intermediate and falling back to the second table of the HTML.
func ReadChecks(htmlPath string) ([]checks.Row, error) {
	tsvPath := strings.TrimSuffix(htmlPath, Suffix) + TSVSuffix
	if f, err := os.Open(tsvPath); err == nil {
		defer f.Close()
		rows, err := ReadTSV(f)
		if err != nil {
			return nil, tshcqc.Shapef("%s: %v", filepath.Base(tsvPath), err)
		}
		return rows, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables, err := ParseTables(f)
	if err != nil {
		return nil, err
	}
	if len(tables) < 2 {
		return nil, tshcqc.Shapef("%s has %d tables, expected the run details and checks tables", filepath.Base(htmlPath), len(tables))
	}

	rows, err := CheckRows(tables[1])
	if err != nil {
		return nil, tshcqc.Shapef("%s: %v", filepath.Base(htmlPath), err)
	}

	return rows, nil
}
