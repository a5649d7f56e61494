package pricing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Header is the canonical column layout written by WriteCSV and CleanCSV.
var Header = []string{"date", "open", "high", "low", "close", "volume"}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

// LoadCSV reads a canonical OHLCV file (see ReadCSV).
func LoadCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	candles, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candles, nil
}

// ReadCSV parses rows with a header naming date, open, high, low, close and
// optionally volume, in any order. Rows are returned sorted by time with
// duplicate timestamps dropped (first one wins).
func ReadCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []Candle
	line := 1
	for {
		row, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		c, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, c)
	}

	out = sortDedupe(out)
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

type columns struct {
	date, open, high, low, close, volume int
}

func columnIndex(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "datetime", "time", "timestamp":
			c.date = i
		case "open":
			c.open = i
		case "high":
			c.high = i
		case "low":
			c.low = i
		case "close":
			c.close = i
		case "volume":
			c.volume = i
		}
	}
	for name, idx := range map[string]int{"date": c.date, "open": c.open, "high": c.high, "low": c.low, "close": c.close} {
		if idx < 0 {
			return c, fmt.Errorf("missing %q column in header %v", name, header)
		}
	}
	return c, nil
}

func parseRow(row []string, c columns) (Candle, error) {
	get := func(idx int) (string, error) {
		if idx >= len(row) {
			return "", fmt.Errorf("short row (%d fields)", len(row))
		}
		return strings.TrimSpace(row[idx]), nil
	}
	num := func(name string, idx int) (float64, error) {
		s, err := get(idx)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s %q: %w", name, s, err)
		}
		return v, nil
	}

	ds, err := get(c.date)
	if err != nil {
		return Candle{}, err
	}
	t, err := parseTime(ds)
	if err != nil {
		return Candle{}, err
	}

	var cd Candle
	cd.Time = t
	if cd.Open, err = num("open", c.open); err != nil {
		return Candle{}, err
	}
	if cd.High, err = num("high", c.high); err != nil {
		return Candle{}, err
	}
	if cd.Low, err = num("low", c.low); err != nil {
		return Candle{}, err
	}
	if cd.Close, err = num("close", c.close); err != nil {
		return Candle{}, err
	}
	if c.volume >= 0 {
		if cd.Volume, err = num("volume", c.volume); err != nil {
			return Candle{}, err
		}
	}
	return cd, nil
}

func sortDedupe(in []Candle) []Candle {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Time.Before(in[j].Time) })
	out := in[:0]
	for i, c := range in {
		if i > 0 && c.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// WriteCSV writes candles in the canonical layout.
func WriteCSV(w io.Writer, candles []Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range candles {
		err := cw.Write([]string{
			c.Time.UTC().Format(time.RFC3339),
			f(c.Open),
			f(c.High),
			f(c.Low),
			f(c.Close),
			f(c.Volume),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
