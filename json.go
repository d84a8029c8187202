package tmeta

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSONHeader extracts the raw header fields from a JSON catalog. The
// top-level object is the field source unless it carries a "headers"
// object, in which case that envelope wins. String and boolean values
// pass through, numbers are stringified, and nested arrays or objects
// are skipped since they cannot be header fields.
func ReadJSONHeader(r io.Reader) (RawHeader, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	if env, ok := doc["headers"].(map[string]any); ok {
		doc = env
	}

	raw := make(RawHeader, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case string:
			raw[key] = v
		case bool:
			raw[key] = v
		case json.Number:
			raw[key] = v.String()
		}
	}

	return raw, nil
}
