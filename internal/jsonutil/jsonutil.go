// Package jsonutil pulls the one JSON object out of accumulated model text.
// Models occasionally wrap output in prose or markdown fences despite the
// prompt rules, so extraction scans for the first balanced object instead of
// unmarshalling the whole response.
package jsonutil

import (
	"errors"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrNoObject means no balanced JSON object was found in the text.
var ErrNoObject = errors.New("no JSON object found in model output")

// ErrInvalid means a balanced candidate was found but does not parse.
var ErrInvalid = errors.New("model output JSON is invalid")

// ExtractObject returns the first balanced top-level {...} in s. Braces
// inside string literals (and escaped quotes inside those) do not count.
func ExtractObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if !gjson.Valid(candidate) {
					return "", ErrInvalid
				}
				return candidate, nil
			}
		}
	}
	return "", ErrNoObject
}

// Meta is provenance attached to an extraction result.
type Meta struct {
	SourceKey string
	Blueprint string
	Model     string
	Duration  time.Duration
}

// Decorate adds a _meta object to the extracted JSON without disturbing the
// attribute fields.
func Decorate(raw string, m Meta) (string, error) {
	out := raw
	var err error
	if out, err = sjson.Set(out, "_meta.source_key", m.SourceKey); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "_meta.blueprint", m.Blueprint); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "_meta.model", m.Model); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "_meta.duration_ms", m.Duration.Milliseconds()); err != nil {
		return "", err
	}
	return out, nil
}

// Pretty formats JSON for terminal and file output.
func Pretty(raw []byte) []byte {
	return pretty.Pretty(raw)
}
