package tableread

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions the reader cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// sniffLines is how many leading lines are inspected to guess the delimiter.
const sniffLines = 5

// Open reads the table stored at path.
func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	t, err := Read(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// Read decodes a table named name from r. The format is chosen from the
// extension: .csv and .txt are delimited text, .xlsx is a workbook (first
// sheet), and .gz / .lz4 wrap a delimited text file.
func Read(name string, r io.Reader) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv", ".txt", ".tsv":
		return readCSV(name, r)
	case ".xlsx":
		return readXLSX(name, r)
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", name, err)
		}
		defer gr.Close()
		return readCSV(name, gr)
	case ".lz4":
		return readCSV(name, lz4.NewReader(r))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

func readCSV(name string, r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(64 * 1024)

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read %s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return NewTable(name, header, rows), nil
}

// sniffDelimiter picks the candidate that splits the first lines into the
// most consistent, widest rows. Comma wins ties.
func sniffDelimiter(sample []byte) rune {
	lines := bytes.SplitN(sample, []byte("\n"), sniffLines+1)
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}
	best, bestScore := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		score := 0
		first := -1
		for _, line := range lines {
			n := bytes.Count(line, []byte(string(d)))
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			if first == -1 {
				first = n
			}
			if n == first {
				score += n
			}
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

func readXLSX(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read %s: workbook has no sheets", name)
	}
	// Raw values: a count displayed as "1,234" is stored as 1234.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s sheet %q: %w", name, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: empty sheet", name)
	}
	return NewTable(name, rows[0], rows[1:]), nil
}
