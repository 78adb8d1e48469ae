package utils

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/akuzmin/marketdesk/src/models"
)

// ReviewCSV renders review rows with the stable core columns first and any
// extra keys found in the data appended in sorted order. Returns the encoded
// bytes and the final column list.
func ReviewCSV(rows []models.AppReview) ([]byte, []string, error) {
	columns := append([]string{}, models.ReviewCoreColumns...)

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	extras := map[string]bool{}
	for _, r := range rows {
		for k := range r.Extra {
			if !seen[k] {
				extras[k] = true
			}
		}
	}

	extraCols := make([]string, 0, len(extras))
	for k := range extras {
		extraCols = append(extraCols, k)
	}
	sort.Strings(extraCols)
	columns = append(columns, extraCols...)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(columns); err != nil {
		return nil, nil, fmt.Errorf("ReviewCSV: failed to write header: %w", err)
	}

	record := make([]string, len(columns))
	for i := range rows {
		for j, c := range columns {
			record[j] = rows[i].Field(c)
		}
		if err := w.Write(record); err != nil {
			return nil, nil, fmt.Errorf("ReviewCSV: failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, fmt.Errorf("ReviewCSV: failed to flush: %w", err)
	}

	return buf.Bytes(), columns, nil
}

// QuoteJSON renders a single quote, raw contract record included, as indented
// key-value text for download.
func QuoteJSON(q *models.OptionQuote) ([]byte, error) {
	out, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("QuoteJSON: failed to marshal quote: %w", err)
	}

	return out, nil
}

// QuotesCSV renders quote rows as csv.
func QuotesCSV(quotes []*models.OptionQuote) ([]byte, error) {
	rows := make([]models.OptionQuoteCSVRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, q.ToCSVRow())
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("QuotesCSV: failed to marshal csv: %w", err)
	}

	return out, nil
}
