// Package binding holds request field types shared by the JSON and form
// bodies that fiber's BodyParser fills.
package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Scalar is an id or amount sent either as a JSON string, a JSON number or
// a form value. It keeps the literal text; handlers parse it.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a number or a string, got %s", data)
	}
	*s = Scalar(n.String())
	return nil
}

// UnmarshalText covers form-encoded bodies.
func (s *Scalar) UnmarshalText(text []byte) error {
	*s = Scalar(text)
	return nil
}

func (s Scalar) String() string { return string(s) }
