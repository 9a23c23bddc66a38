package gemini

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fence = regexp.MustCompile("(?i)```(json)?")

// ExtractJSON strips markdown fences and keeps the span from the first open
// to the last close character. Text without such a span is returned trimmed.
func ExtractJSON(text string, open, close byte) string {
	text = fence.ReplaceAllString(text, "")
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start != -1 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// DecodeObject parses a single JSON object out of model text.
func DecodeObject[T any](text string) (T, error) {
	var out T
	raw := ExtractJSON(text, '{', '}')
	if !strings.HasPrefix(raw, "{") {
		return out, invalidResponse(errors.New("no JSON object in model output"))
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, invalidResponse(err)
	}
	return out, nil
}

// DecodeList parses a JSON array out of model text. A lone object is
// accepted as a one element list.
func DecodeList[T any](text string) ([]T, error) {
	clean := fence.ReplaceAllString(text, "")
	arr := strings.IndexByte(clean, '[')
	obj := strings.IndexByte(clean, '{')

	if arr == -1 || (obj != -1 && obj < arr) {
		one, err := DecodeObject[T](clean)
		if err != nil {
			return nil, err
		}
		return []T{one}, nil
	}

	var out []T
	if err := json.Unmarshal([]byte(ExtractJSON(clean, '[', ']')), &out); err != nil {
		return nil, invalidResponse(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
