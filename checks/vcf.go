package checks

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/vcfgo"
)

// inspectVCFs parses the header of each VCF and logs who is in it. It only
// reports; the VCF count check does not depend on what it finds.
func inspectVCFs(dir string, entries []os.DirEntry) {
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".vcf") || strings.HasSuffix(name, ".vcf.gz")) {
			continue
		}

		samples, err := vcfSamples(filepath.Join(dir, name))
		if err != nil {
			log.Printf("Warning: cannot read VCF header of %s: %v\n", name, err)
			continue
		}
		log.Printf("%s: %d sample(s): %s\n", name, len(samples), strings.Join(samples, ", "))
	}
}

func vcfSamples(path string) ([]string, error) {
	f, err := tshcqc.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr, err := vcfgo.NewReader(bufio.NewReader(f), true)
	if err != nil {
		return nil, err
	}

	return rdr.Header.SampleNames, nil
}
