// Package codec converts between CSV tables, contour samples and the
// encodings served for contour paths.
package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/contour-backend/internal/contour"
)

// ErrBadTable reports a CSV table that cannot be read as samples.
var ErrBadTable = errors.New("bad table")

// DecodeSamples reads a CSV table with a header row and returns one sample
// per data row, taking x, y and z from the columns named in cols.
func DecodeSamples(r io.Reader, cols [3]string) ([]contour.Sample, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrBadTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var pos [3]int
	for k, name := range cols {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: no column %q", ErrBadTable, name)
		}
		pos[k] = i
	}

	var samples []contour.Sample
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
		}

		var v [3]float64
		for k, i := range pos {
			f, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", ErrBadTable, line, cols[k], err)
			}
			v[k] = f
		}
		samples = append(samples, contour.Sample{X: v[0], Y: v[1], Z: v[2]})
	}

	return samples, nil
}
