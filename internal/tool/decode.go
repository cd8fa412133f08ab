package tool

import "encoding/json"

// StructuredString is the decoded form of a string-smuggled structured
// argument. The function-calling protocol cannot always express nested
// objects or lists, so tools declare those fields as plain strings and
// handlers decode them on entry.
type StructuredString struct {
	// Value holds the decoded JSON value when the string parsed, or the
	// literal input string when it did not.
	Value interface{} `json:"value"`
	// Structured reports whether the input decoded as JSON.
	Structured bool `json:"structured"`
}

// DecodeStructured leniently decodes a string-smuggled field. Parse
// failure is not an error: the model may emit plain text where
// structured data was preferable, and that text is kept verbatim.
func DecodeStructured(s string) StructuredString {
	if s == "" {
		return StructuredString{Value: "", Structured: false}
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return StructuredString{Value: v, Structured: true}
		}
	}
	return StructuredString{Value: s, Structured: false}
}

// normalizeStructured round-trips a string-smuggled field: structured
// input is re-encoded compactly, anything else passes through verbatim.
func normalizeStructured(s string) string {
	d := DecodeStructured(s)
	if !d.Structured {
		return s
	}
	compact, err := json.Marshal(d.Value)
	if err != nil {
		return s
	}
	return string(compact)
}
