package customer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tarmac-project/customer-lookup/sql"
)

// Record is one customer row. Columns keep the order the database returned
// them in, including when encoded as JSON.
type Record struct {
	columns []string
	values  []any
}

// NewRecord pairs column names with values. Missing values are nil; extra
// values are dropped.
func NewRecord(columns []string, values []any) Record {
	r := Record{
		columns: append([]string(nil), columns...),
		values:  make([]any, len(columns)),
	}
	copy(r.values, values)
	return r
}

// Columns returns the column names in order.
func (r Record) Columns() []string { return append([]string(nil), r.columns...) }

// Len returns the number of columns.
func (r Record) Len() int { return len(r.columns) }

// Get returns the value of a column.
func (r Record) Get(column string) (any, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the record as an unordered map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %s: %w", c, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping its key order.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("customer record must be a JSON object")
	}

	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in customer record", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		rec.columns = append(rec.columns, key)
		rec.values = append(rec.values, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = rec
	return nil
}

// ResultSet is the ordered list of matching records. It encodes as [] when empty.
type ResultSet []Record

// MarshalJSON implements json.Marshaler.
func (rs ResultSet) MarshalJSON() ([]byte, error) {
	if rs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Record(rs))
}

// Maps returns the records as unordered maps.
func (rs ResultSet) Maps() []map[string]any {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Map())
	}
	return out
}

func newResultSet(res sql.QueryResult) ResultSet {
	rs := make(ResultSet, 0, len(res.Rows))
	for _, row := range res.Rows {
		rs = append(rs, NewRecord(res.Columns, row))
	}
	return rs
}
