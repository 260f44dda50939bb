package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"ritcompass/internal/models"
)

// rawEntry keeps payload fields as raw JSON so presence can be checked
// separately from emptiness.
type rawEntry struct {
	Type     *string         `json:"type"`
	Timeline json.RawMessage `json:"timeline"`
	Message  json.RawMessage `json:"message"`
	Remarks  *string         `json:"remarks"`
}

// ParseResponse validates the extraction model output against the
// timeline/message schema. Malformed output is rejected, never repaired:
// markdown fences or prose around the JSON are errors.
func ParseResponse(text string) (models.ExtractionResult, error) {
	data := []byte(text)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level is not an array", ErrResponseParse)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}

	result := make(models.ExtractionResult, 0, len(elements))
	for i, el := range elements {
		entry, err := parseEntry(el)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %s", ErrResponseParse, i, err)
		}
		result = append(result, entry)
	}
	return result, nil
}

func parseEntry(el json.RawMessage) (models.ExtractionEntry, error) {
	var raw rawEntry
	if err := json.Unmarshal(el, &raw); err != nil {
		return models.ExtractionEntry{}, err
	}
	if raw.Type == nil {
		return models.ExtractionEntry{}, fmt.Errorf("missing type")
	}

	entry := models.ExtractionEntry{Type: models.EntryType(*raw.Type)}
	if raw.Remarks != nil {
		entry.Remarks = *raw.Remarks
	}

	switch entry.Type {
	case models.EntryTypeTimeline:
		if isAbsent(raw.Timeline) {
			return models.ExtractionEntry{}, fmt.Errorf("timeline entry without timeline array")
		}
		if err := json.Unmarshal(raw.Timeline, &entry.Timeline); err != nil {
			return models.ExtractionEntry{}, fmt.Errorf("timeline: %w", err)
		}
		if entry.Timeline == nil {
			entry.Timeline = []models.TimelineEntry{}
		}
		if msg, err := optionalString(raw.Message); err != nil || msg != "" {
			return models.ExtractionEntry{}, fmt.Errorf("timeline entry also carries a message")
		}
	case models.EntryTypeMessage:
		if isAbsent(raw.Message) {
			return models.ExtractionEntry{}, fmt.Errorf("message entry without message string")
		}
		if err := json.Unmarshal(raw.Message, &entry.Message); err != nil {
			return models.ExtractionEntry{}, fmt.Errorf("message: %w", err)
		}
		if !isEmptyArray(raw.Timeline) {
			return models.ExtractionEntry{}, fmt.Errorf("message entry also carries a timeline")
		}
	default:
		return models.ExtractionEntry{}, fmt.Errorf("unknown type %q", *raw.Type)
	}

	return entry, nil
}

func isAbsent(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}

// isEmptyArray is true for an absent, null or [] value.
func isEmptyArray(v json.RawMessage) bool {
	if isAbsent(v) {
		return true
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(v, &arr); err != nil {
		return false
	}
	return len(arr) == 0
}

func optionalString(v json.RawMessage) (string, error) {
	if isAbsent(v) {
		return "", nil
	}
	var s string
	err := json.Unmarshal(v, &s)
	return s, err
}
