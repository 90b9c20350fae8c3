package mockusers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errAgeType = errors.New("age must be a string or a number")

// Age is a user's age as the service stores it: text that is supposed to hold an integer.
// The original text is kept verbatim; Int parses it strictly and RenderInt leniently.
type Age struct {
	text string
}

// AgeOf wraps a text value.
func AgeOf(text string) Age { return Age{text: text} }

func (a Age) String() string { return a.text }

// IsBlank reports whether the text is empty or only whitespace.
func (a Age) IsBlank() bool { return isBlank(a.text) }

// Int parses the text as a base-10 integer in the range of a 32-bit column.
func (a Age) Int() (int, error) {
	n, err := strconv.ParseInt(a.text, 10, 32)
	return int(n), err
}

// RenderInt returns the integer value for responses, or 0 if the text does not parse.
func (a Age) RenderInt() int {
	n, err := a.Int()
	if err != nil {
		return 0
	}
	return n
}

func (a Age) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts a JSON string or number. Null leaves the age blank.
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		a.text = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &a.text)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errAgeType
		}
		a.text = n.String()
		return nil
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
