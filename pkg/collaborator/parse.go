package collaborator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// ExtractJSON returns the JSON document in a model response, accepting either
// a bare object or one wrapped in a fenced code block.
func ExtractJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)

	if json.Valid([]byte(content)) {
		return []byte(content), nil
	}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) > 1 {
		block := strings.TrimSpace(matches[1])
		if json.Valid([]byte(block)) {
			return []byte(block), nil
		}
	}

	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		candidate := content[start : end+1]
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}

	return nil, fmt.Errorf("could not parse JSON from response")
}
