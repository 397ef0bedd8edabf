package fundperf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
)

// jsonObjectWriter builds a JSON object whose fields keep their insertion order, so exported
// lines are stable and diffable. The zero value is an empty object.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append writes key with the json.Marshal encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	fmt.Fprintf(w, "%q:", key)
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional is Append, skipped for zero values.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Number appends a float in its shortest exact decimal form. NaN and infinities are written
// as null.
func (w *jsonObjectWriter) Number(key string, v float64) *jsonObjectWriter {
	if Insufficient(v) {
		return w.Append(key, nil)
	}
	return w.Append(key, json.Number(decimal.NewFromFloat(v).String()))
}

// MarshalJSON returns the object, or the first marshaling error.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}
