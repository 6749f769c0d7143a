package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// LLM responses rarely arrive as clean JSON: they come wrapped in markdown
// fences, with trailing commas, single quotes, or commentary around the
// payload. The helpers here recover a usable document before the caller
// decodes it into a schema struct.

// StripCodeFence removes an outer ``` block (with or without a language tag)
// so the payload inside can be parsed directly.
func StripCodeFence(input string) string {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence, e.g. ```json
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.ContainsAny(first, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// RepairJSON fixes common model-output defects (unquoted keys, single
// quotes, unclosed brackets, trailing commas) and returns valid JSON.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// ParseHJSON accepts human-friendly JSON (comments, unquoted strings,
// optional commas) and normalizes it to standard JSON.
func ParseHJSON(input string) (string, error) {
	var doc interface{}
	if err := hjson.Unmarshal([]byte(input), &doc); err != nil {
		return "", fmt.Errorf("hjson parse failed: %v", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hjson re-encode failed: %v", err)
	}
	return string(out), nil
}

// SmartParse decodes input into schema, escalating through repair strategies:
// fence strip + standard JSON, then json-repair, then Hjson. Returns the
// document that finally decoded.
func SmartParse(input string, schema interface{}) (string, error) {
	raw := StripCodeFence(input)

	if err := json.Unmarshal([]byte(raw), schema); err == nil {
		return raw, nil
	}

	if repaired, err := RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if normalized, err := ParseHJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(normalized), schema); err == nil {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("no parsing strategy could decode the input")
}
