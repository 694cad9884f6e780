package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/intraday/market"
)

// LoadCSV reads bars from a CSV file of rows:
//
//	timestamp,open,high,low,close,volume
//
// where timestamp is RFC3339 or RFC3339Nano. A single header row
// ("timestamp,...") is allowed. Empty rows are skipped. Rows must be
// ascending by timestamp.
func LoadCSV(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadBars(f)
}

// ReadBars parses bar rows from r. See LoadCSV for the format.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []market.Bar
	sawFirst := false

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "timestamp") {
				continue
			}
		}

		bar, ok, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	if !market.Ascending(bars) {
		return nil, fmt.Errorf("bars are not ascending by timestamp")
	}
	return bars, nil
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	if len(row) < 6 {
		return market.Bar{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return market.Bar{}, false, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
		t = t2
	}

	fields := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad price %q: %w", row[i+1], err)
		}
		fields[i] = v
	}

	vol, err := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
	if err != nil {
		return market.Bar{}, false, fmt.Errorf("bad volume %q: %w", row[5], err)
	}

	return market.Bar{
		Timestamp: t,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    vol,
	}, true, nil
}
