package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	ResultStartMarker = "<<<RESULT"
	ResultEndMarker   = "RESULT>>>"
)

var thinkSpan = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThink removes every <think>...</think> span. Text without one is returned unchanged.
func StripThink(text string) string {
	for {
		next := thinkSpan.ReplaceAllString(text, "")
		if next == text {
			return text
		}
		text = next
	}
}

// ExtractObject returns the one JSON object embedded in model output. Reasoning
// spans are stripped first, and when result markers are present only the marked
// region is searched. Several decodable objects are treated as ambiguous.
func ExtractObject(text string) (json.RawMessage, error) {
	region := markedRegion(StripThink(text))

	spans := braceSpans(region)
	if len(spans) == 0 {
		return nil, ErrExtraction
	}

	var candidates []json.RawMessage
	for _, span := range spans {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(span), &obj); err == nil {
			candidates = append(candidates, json.RawMessage(span))
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: extracted span is not a JSON object", ErrMalformedPayload)
	case 1:
		return candidates[0], nil
	default:
		return nil, fmt.Errorf("%w: %d JSON objects found", ErrMalformedPayload, len(candidates))
	}
}

func markedRegion(text string) string {
	start := strings.Index(text, ResultStartMarker)
	if start < 0 {
		return text
	}
	rest := text[start+len(ResultStartMarker):]
	if end := strings.Index(rest, ResultEndMarker); end >= 0 {
		return rest[:end]
	}
	return rest
}

// braceSpans finds balanced top-level {...} spans. Braces inside JSON strings are
// ignored. An opening brace that never closes is skipped.
func braceSpans(text string) []string {
	var spans []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end := matchBrace(text, i)
		if end < 0 {
			continue
		}
		spans = append(spans, text[i:end+1])
		i = end
	}
	return spans
}

func matchBrace(text string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
