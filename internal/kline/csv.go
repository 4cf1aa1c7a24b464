package kline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("kline: missing CSV column")

var csvColumns = []string{"time", "open", "high", "low", "close"}

// ReadCSV parses klines from CSV with a header naming at least
// time,open,high,low,close in any order. Time is RFC3339 or Unix
// milliseconds. Rows are returned in file order.
func ReadCSV(r io.Reader, symbol string) ([]Kline, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("kline: read CSV header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var klines []Kline
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kline: CSV line %d: %w", line, err)
		}

		k, err := parseRow(row, idx, symbol)
		if err != nil {
			return nil, fmt.Errorf("kline: CSV line %d: %w", line, err)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

func parseRow(row []string, idx map[string]int, symbol string) (Kline, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(row) {
			return "", fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	raw, err := field("time")
	if err != nil {
		return Kline{}, err
	}
	openTime, err := parseTime(raw)
	if err != nil {
		return Kline{}, err
	}

	var prices [4]float64
	for i, col := range csvColumns[1:] {
		raw, err := field(col)
		if err != nil {
			return Kline{}, err
		}
		if prices[i], err = strconv.ParseFloat(raw, 64); err != nil {
			return Kline{}, fmt.Errorf("%s: %w", col, err)
		}
	}

	return Kline{
		Symbol:   symbol,
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		OpenTime: openTime,
	}, nil
}

func parseTime(raw string) (time.Time, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: want RFC3339 or Unix milliseconds", raw)
	}
	return t.UTC(), nil
}
