package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/carepoint/internal/common"
)

func malformed(path string, err error) error {
	return &common.RemoteError{
		Path: path,
		Err:  fmt.Errorf("%w: %v", common.ErrMalformedPayload, err),
	}
}

// isBlank reports whether a body carries no value at all.
func isBlank(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}

// decodeList accepts either a bare array or an object with a "data" array. Absent
// collections decode as empty; a value of the wrong shape is an error.
func decodeList[T any](path string, body []byte) ([]T, error) {
	items := []T{}
	if isBlank(body) {
		return items, nil
	}

	raw := bytes.TrimSpace(body)
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, malformed(path, err)
		}
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, malformed(path, err)
		}
		if isBlank(envelope.Data) {
			return items, nil
		}
		if err := json.Unmarshal(envelope.Data, &items); err != nil {
			return nil, malformed(path, err)
		}
	default:
		return nil, malformed(path, fmt.Errorf("expected array or object, got %q", truncate(raw)))
	}

	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeObject requires a JSON object.
func decodeObject(path string, body []byte, out any) error {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 || raw[0] != '{' {
		return malformed(path, fmt.Errorf("expected object, got %q", truncate(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(path, err)
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 40
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
