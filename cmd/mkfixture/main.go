// mkfixture writes a synthetic, schema-complete set of outcome, comorbidity
// and demographic tables for demos and manual testing.
// Usage: go run ./cmd/mkfixture --out testdata --rows 12 --seed 7 --compress lz4
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4"

	"github.com/gyeh/casereport/internal/fixture"
	"github.com/gyeh/casereport/internal/model"
)

func main() {
	out := flag.String("out", "testdata", "output directory")
	rows := flag.Int("rows", 12, "data rows per table")
	seed := flag.Uint64("seed", 1, "random seed")
	compress := flag.String("compress", "none", "compression: none, gz or lz4")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	b := fixture.New(*rows).Fill(*seed)
	for _, role := range model.RolePriority {
		path, err := writeTable(*out, role.String()+".csv", *compress, b.CSV(role))
		if err != nil {
			fmt.Fprintf(os.Stderr, "write %s table: %v\n", role, err)
			os.Exit(1)
		}
		fmt.Printf("%-12s %s\n", role, path)
	}
}

func writeTable(dir, name, compress string, data []byte) (string, error) {
	switch compress {
	case "none", "":
	case "gz", "lz4":
		name += "." + compress
	default:
		return "", fmt.Errorf("unknown compression %q", compress)
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var w io.WriteCloser
	switch compress {
	case "gz":
		w = gzip.NewWriter(f)
	case "lz4":
		w = lz4.NewWriter(f)
	}
	if w == nil {
		_, err = f.Write(data)
		return path, err
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	return path, w.Close()
}
