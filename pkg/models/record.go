package models

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Field names injected into every record during load. They always
// overwrite same-named fields of the source document.
const (
	FieldS3Key             = "s3_key"
	FieldAnalysisTimestamp = "analysis_timestamp"
)

// AnalysisRecord is one parsed analysis result document. The field set is
// open ended, values are whatever the JSON body carries.
type AnalysisRecord map[string]interface{}

// NewAnalysisRecord parses a raw JSON body into a record
func NewAnalysisRecord(raw []byte) (AnalysisRecord, error) {
	var rec AnalysisRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.Wrap(err, "Fail to parse analysis JSON body")
	}
	return rec, nil
}

// Annotate injects source key and listing timestamp of the entry
func (x AnalysisRecord) Annotate(entry ListEntry) {
	x[FieldS3Key] = entry.Key
	x[FieldAnalysisTimestamp] = entry.LastModified
}

// ResultTable is a read only tabular view over a record sequence. Columns
// are the union of field names across all records, data columns in
// first-seen order (keys sorted within each record) and the injected
// columns last. A record lacking a column yields an empty cell.
type ResultTable struct {
	Columns []string
	records []AnalysisRecord
}

// NewResultTable builds a table from records, keeping their order
func NewResultTable(records []AnalysisRecord) *ResultTable {
	var columns []string
	seen := map[string]bool{}
	injected := map[string]bool{}

	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for key := range rec {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if key == FieldS3Key || key == FieldAnalysisTimestamp {
				injected[key] = true
				continue
			}
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	if injected[FieldS3Key] {
		columns = append(columns, FieldS3Key)
	}
	if injected[FieldAnalysisTimestamp] {
		columns = append(columns, FieldAnalysisTimestamp)
	}

	return &ResultTable{
		Columns: columns,
		records: records,
	}
}

// NumRows returns number of records in the table
func (x *ResultTable) NumRows() int {
	return len(x.records)
}

// Head returns up to n leading records for preview
func (x *ResultTable) Head(n int) []AnalysisRecord {
	if n > len(x.records) {
		n = len(x.records)
	}
	return x.records[:n]
}

// Row renders cells of the i-th record in column order
func (x *ResultTable) Row(i int) []string {
	rec := x.records[i]
	row := make([]string, len(x.Columns))
	for c, col := range x.Columns {
		v, ok := rec[col]
		if !ok {
			continue
		}
		row[c] = renderCell(v)
	}
	return row
}

// renderCell converts a record value to its cell text. Timestamps are
// forced to RFC3339 UTC, nested structures to compact JSON.
func renderCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// WriteCSV serializes the full table, header row first, no index column
func (x *ResultTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(x.Columns); err != nil {
		return errors.Wrap(err, "Fail to write CSV header")
	}

	for i := range x.records {
		if err := cw.Write(x.Row(i)); err != nil {
			return errors.Wrapf(err, "Fail to write CSV row %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "Fail to flush CSV")
}
