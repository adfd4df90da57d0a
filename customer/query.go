package customer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Input field names.
const (
	FieldFirstName  = "FirstName"
	FieldMiddleName = "MiddleName"
	FieldLastName   = "LastName"
)

// Statement selects customers matching all three name parts. Placeholders are
// bound positionally to FirstName, MiddleName and LastName.
const Statement = "SELECT * FROM [SalesLT].[Customer] WHERE FirstName=? AND MiddleName=? AND LastName=?"

// ErrInvalidInput indicates input that is not a mapping with the required
// string fields.
var ErrInvalidInput = errors.New("invalid customer lookup input")

// Query is a normalized lookup request. A nil MiddleName is bound as SQL NULL.
type Query struct {
	FirstName  string  `json:"FirstName"`
	MiddleName *string `json:"MiddleName"`
	LastName   string  `json:"LastName"`
}

// Args returns the statement arguments in placeholder order.
func (q Query) Args() []any {
	var middle any
	if q.MiddleName != nil && *q.MiddleName != "" {
		middle = *q.MiddleName
	}
	return []any{q.FirstName, middle, q.LastName}
}

// ParseQuery normalizes input into a Query. Accepted forms are Query,
// *Query, map[string]any, map[string]string and JSON text given as string,
// []byte or json.RawMessage. JSON text that is itself a JSON string is
// unwrapped once.
func ParseQuery(input any) (Query, error) {
	switch v := input.(type) {
	case Query:
		return v.normalized(), nil
	case *Query:
		if v == nil {
			return Query{}, fmt.Errorf("%w: input is nil", ErrInvalidInput)
		}
		return v.normalized(), nil
	}

	fields, err := toMapping(input)
	if err != nil {
		return Query{}, err
	}
	return fromMapping(fields)
}

func (q Query) normalized() Query {
	if q.MiddleName != nil && *q.MiddleName == "" {
		q.MiddleName = nil
	}
	return q
}

func toMapping(input any) (map[string]any, error) {
	switch v := input.(type) {
	case nil:
		return nil, fmt.Errorf("%w: input is nil", ErrInvalidInput)
	case map[string]any:
		if v == nil {
			return nil, fmt.Errorf("%w: input is nil", ErrInvalidInput)
		}
		return v, nil
	case map[string]string:
		if v == nil {
			return nil, fmt.Errorf("%w: input is nil", ErrInvalidInput)
		}
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return m, nil
	case string:
		return decode([]byte(v))
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	default:
		return nil, fmt.Errorf("%w: unsupported input type %T", ErrInvalidInput, input)
	}
}

func decode(b []byte) (map[string]any, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return nil, errors.Join(ErrInvalidInput, err)
		}
		b = bytes.TrimSpace([]byte(inner))
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: input is null", ErrInvalidInput)
	}
	return m, nil
}

func fromMapping(m map[string]any) (Query, error) {
	first, err := requireString(m, FieldFirstName)
	if err != nil {
		return Query{}, err
	}
	last, err := requireString(m, FieldLastName)
	if err != nil {
		return Query{}, err
	}

	raw, ok := m[FieldMiddleName]
	if !ok {
		return Query{}, fmt.Errorf("%w: missing %s", ErrInvalidInput, FieldMiddleName)
	}

	q := Query{FirstName: first, LastName: last}
	switch v := raw.(type) {
	case nil:
	case string:
		if v != "" {
			q.MiddleName = &v
		}
	default:
		return Query{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidInput, FieldMiddleName, raw)
	}
	return q, nil
}

func requireString(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidInput, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidInput, key, raw)
	}
	return s, nil
}
