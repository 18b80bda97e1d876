package factcheck

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSON isolates the JSON object in raw model output by slicing from the
// first '{' to the last '}' inclusive. When no such pair exists it falls back
// to stripping markdown code fences.
//
// This is a heuristic: braces inside prose before or after the object end up
// in the slice. ParseResult retries with trailingObject when the slice does
// not decode.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	return stripFences(raw)
}

func stripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```JSON", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// scannedObject is a complete JSON object found by scanObjects. end is the
// byte offset just past its closing brace.
type scannedObject struct {
	raw json.RawMessage
	end int
}

// scanObjects returns every complete JSON object found in raw, in order, by
// attempting a decode at each '{' not already consumed by a previous object.
// A '{' whose decode fails is skipped, so objects nested inside a malformed
// one are returned too; callers must filter by position.
func scanObjects(raw string) []scannedObject {
	var out []scannedObject
	data := []byte(raw)
	for i := 0; i < len(data); {
		idx := bytes.IndexByte(data[i:], '{')
		if idx == -1 {
			break
		}
		pos := i + idx
		dec := json.NewDecoder(bytes.NewReader(data[pos:]))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err != nil {
			i = pos + 1
			continue
		}
		end := pos + int(dec.InputOffset())
		out = append(out, scannedObject{raw: obj, end: end})
		i = end
	}
	return out
}

// trailingObject returns the complete object that closes at the last '}' of
// raw. Only prose before the payload is skipped; an object nested inside a
// malformed payload never ends there.
func trailingObject(raw string) (json.RawMessage, bool) {
	last := strings.LastIndex(raw, "}")
	if last == -1 {
		return nil, false
	}
	for _, obj := range scanObjects(raw) {
		if obj.end == last+1 {
			return obj.raw, true
		}
	}
	return nil, false
}
