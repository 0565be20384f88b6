package tshcqc

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// SniffDelimiter guesses the field separator of a small delimited text file,
// such as a worksheet pairing list. Tab is assumed when nothing is detected.
func SniffDelimiter(content []byte) rune {
	d := detector.New()
	candidates := d.DetectDelimiter(bytes.NewReader(content), '"')

	if len(candidates) > 0 && len(candidates[0]) > 0 {
		return rune(candidates[0][0])
	}

	return '\t'
}
