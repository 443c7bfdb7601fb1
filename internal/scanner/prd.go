package scanner

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
)

// contentKeys are consulted in order for a JSON task's description.
var contentKeys = []string{"title", "description", "name"}

// decodePRD parses data as JSON. Invalid UTF-8 is rejected before any
// parsing. With lenient set, a document that fails strict parsing gets one
// repair attempt; the strict error is returned if the repair does not yield
// valid JSON.
func decodePRD(data []byte, lenient bool) (json.RawMessage, bool, error) {
	if !utf8.Valid(data) {
		return nil, false, errNotUTF8
	}

	var doc json.RawMessage
	err := json.Unmarshal(data, &doc)
	if err == nil {
		return doc, false, nil
	}
	if !lenient {
		return nil, false, err
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil || !json.Valid([]byte(repaired)) {
		return nil, false, err
	}
	return json.RawMessage(repaired), true, nil
}

// taskList picks the task array out of a PRD document. The checks run in a
// fixed order: object "tasks" array, object "features" array, top-level
// array. Any other shape yields no tasks.
func taskList(doc json.RawMessage) []json.RawMessage {
	switch firstByte(doc) {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(doc, &obj); err != nil {
			return nil
		}
		for _, key := range []string{"tasks", "features"} {
			if items, ok := asArray(obj[key]); ok {
				return items
			}
		}
		return nil
	case '[':
		items, _ := asArray(doc)
		return items
	default:
		return nil
	}
}

// extractPRDTasks returns the pending tasks of a decoded PRD document,
// without Source set.
func extractPRDTasks(doc json.RawMessage, terminal map[string]struct{}) []PendingTask {
	var tasks []PendingTask
	for _, raw := range taskList(doc) {
		if firstByte(raw) != '{' {
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}

		status, _ := stringField(obj, "status")
		if _, done := terminal[strings.ToLower(status)]; done {
			continue
		}

		tasks = append(tasks, PendingTask{
			Type:     TypeJSON,
			Content:  taskContent(obj, raw),
			Priority: taskPriority(obj),
		})
	}
	return tasks
}

// taskContent returns the first non-empty title, description or name,
// falling back to the task's own compact JSON text.
func taskContent(obj map[string]json.RawMessage, raw json.RawMessage) string {
	for _, key := range contentKeys {
		if s, ok := stringField(obj, key); ok && s != "" {
			return s
		}
	}
	return truncateRunes(compactJSON(raw), maxFallbackContent)
}

// taskPriority returns the priority as text. Strings are used verbatim,
// other values as compact JSON; a missing or null priority is unknown.
func taskPriority(obj map[string]json.RawMessage) string {
	raw, ok := obj["priority"]
	if !ok || isNull(raw) {
		return UnknownPriority
	}
	if s, ok := stringField(obj, "priority"); ok {
		return s
	}
	return compactJSON(raw)
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok || firstByte(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if firstByte(raw) != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
