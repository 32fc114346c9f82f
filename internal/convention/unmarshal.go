package convention

import (
	"bytes"
	"encoding/json"
)

// unmarshalStrict decodes standardized JSON, rejecting unknown fields
// so a typo in a conventions file (e.g. "legacy_xtensions") fails loud
// instead of silently doing nothing.
func unmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
