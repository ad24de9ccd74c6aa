package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poldracklab/labutils/matrix"
)

// openInput returns stdin for "" or "-", else the named file.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// readFloats parses one number per line; blank lines and #-comments are skipped.
func readFloats(r io.Reader) ([]float64, error) {
	var out []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, v)
	}

	return out, sc.Err()
}

// readInts parses one integer per line.
func readInts(r io.Reader) ([]int, error) {
	fs, err := readFloats(r)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fs))
	for i, v := range fs {
		if v != float64(int(v)) {
			return nil, fmt.Errorf("value %d (%g) is not an integer", i+1, v)
		}
		out[i] = int(v)
	}

	return out, nil
}

// readMatrix parses a headerless numeric CSV into a dense matrix.
func readMatrix(r io.Reader) (*matrix.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i+1, j+1, err)
			}
			data = append(data, v)
		}
	}

	return matrix.NewDenseFrom(len(rows), cols, data)
}
