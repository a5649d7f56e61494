package pricing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// rawMetaRows is the number of metadata rows a raw download starts with
// (price header, ticker row, blank date row).
const rawMetaRows = 3

// CleanCSV converts a raw download (three metadata rows followed by
// date,close,high,low,open,volume rows) into the canonical layout.
// Rows whose date does not parse are dropped. src and dst may be the same file.
func CleanCSV(src, dst string) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, err
	}
	candles, err := readRaw(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src, err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, candles); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return len(candles), nil
}

func readRaw(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []Candle
	for n := 0; ; n++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n < rawMetaRows || len(row) < 6 {
			continue
		}
		t, err := parseTime(row[0])
		if err != nil {
			continue
		}

		vals := make([]float64, 5)
		for i := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad number %q: %w", n+1, row[i+1], err)
			}
			vals[i] = v
		}
		out = append(out, Candle{
			Time:   t,
			Close:  vals[0],
			High:   vals[1],
			Low:    vals[2],
			Open:   vals[3],
			Volume: vals[4],
		})
	}

	out = sortDedupe(out)
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
