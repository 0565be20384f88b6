// Package worksheet derives the identity of a TSHC worksheet from its output
// directory and resolves where the pipeline left each artifact that the
// quality checks consume.
package worksheet

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/carbocation/tshcqc"
)

var rootPattern = regexp.MustCompile(`/(\w{4,7})_(\d{6})_(v\.?\d\.\d\.\d)/`)

// Worksheet is one sequencing batch's pipeline output root.
type Worksheet struct {
	Root    string
	Panel   string
	ID      string
	Version string
}

func (w Worksheet) String() string {
	return fmt.Sprintf("%s_%s_%s", w.Panel, w.ID, w.Version)
}

// ParseRoot reads panel, worksheet id and pipeline version from a path of
// the form .../<panel>_<worksheet>_<version>/ . The trailing separator is
// optional.
func ParseRoot(root string) (Worksheet, error) {
	clean := filepath.ToSlash(filepath.Clean(root)) + "/"
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}

	m := rootPattern.FindStringSubmatch(clean)
	if m == nil {
		return Worksheet{}, tshcqc.Configurationf("%q does not contain a <panel>_<worksheet>_<version> directory", root)
	}

	return Worksheet{
		Root:    filepath.Clean(root),
		Panel:   m[1],
		ID:      m[2],
		Version: m[3],
	}, nil
}

// Pair is the two worksheets that are always sequenced and reviewed
// together.
type Pair struct {
	First, Second Worksheet
}

// NewPair parses both roots and insists they belong to the same panel.
func NewPair(root1, root2 string) (Pair, error) {
	ws1, err := ParseRoot(root1)
	if err != nil {
		return Pair{}, err
	}
	ws2, err := ParseRoot(root2)
	if err != nil {
		return Pair{}, err
	}

	if ws1.Panel != ws2.Panel {
		return Pair{}, tshcqc.Configurationf("panels of the worksheet pair do not match: %s (%s) vs %s (%s)", ws1.Panel, ws1.ID, ws2.Panel, ws2.ID)
	}

	return Pair{First: ws1, Second: ws2}, nil
}

func (p Pair) Panel() string {
	return p.First.Panel
}

// Both returns the pair in command-line order.
func (p Pair) Both() []Worksheet {
	return []Worksheet{p.First, p.Second}
}

// Name joins both worksheet ids in command-line order, as used for the
// kinship report.
func (p Pair) Name() string {
	return p.First.ID + "_" + p.Second.ID
}
