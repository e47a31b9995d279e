package reader

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

// ErrNoArrayFound is returned when the input is neither a JSON array nor
// text with an embedded array of objects.
var ErrNoArrayFound = errors.New("no JSON array found")

// arrayStartRE marks where an embedded array of objects may begin.
var arrayStartRE = regexp.MustCompile(`\[\s*\{`)

// arrayRE is the widest "[ { ... } ]" span in the text.
var arrayRE = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

// ExtractArray parses text as a JSON array of records. When the text is not
// an array by itself (leading log noise, trailing commentary), the first
// embedded array of objects is decoded instead.
func ExtractArray(text []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(text, &records); err == nil && records != nil {
		return records, nil
	}

	// The decoder stops at the end of the first value, so trailing text after
	// a well-formed array is ignored.
	for _, loc := range arrayStartRE.FindAllIndex(text, -1) {
		records = nil
		dec := json.NewDecoder(bytes.NewReader(text[loc[0]:]))
		if err := dec.Decode(&records); err == nil {
			return records, nil
		}
	}

	if m := arrayRE.Find(text); m != nil {
		records = nil
		if err := json.Unmarshal(m, &records); err == nil {
			return records, nil
		}
	}
	return nil, ErrNoArrayFound
}
