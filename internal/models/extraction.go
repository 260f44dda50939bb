package models

import "encoding/json"

type EntryType string

const (
	EntryTypeTimeline EntryType = "timeline"
	EntryTypeMessage  EntryType = "message"
)

// TimelineEntry is a single step of a timeline produced by the model.
type TimelineEntry struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	ResponsibleAuthority string `json:"responsible_authority"`
	ExpectedTime         string `json:"expected_time,omitempty"`
	RelatedLinks         string `json:"related_links,omitempty"`
}

// ExtractionEntry is a tagged union: Timeline is set for timeline entries,
// Message for message entries, never both.
type ExtractionEntry struct {
	Type     EntryType       `json:"type"`
	Timeline []TimelineEntry `json:"timeline,omitempty"`
	Message  string          `json:"message,omitempty"`
	Remarks  string          `json:"remarks,omitempty"`
}

// ExtractionResult is the validated answer of the extraction model.
type ExtractionResult []ExtractionEntry

// MarshalJSON emits only the payload that matches the entry type. A timeline
// entry with no steps still serializes an empty "timeline" array.
func (e ExtractionEntry) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EntryTypeTimeline:
		timeline := e.Timeline
		if timeline == nil {
			timeline = []TimelineEntry{}
		}
		return json.Marshal(struct {
			Type     EntryType       `json:"type"`
			Timeline []TimelineEntry `json:"timeline"`
			Remarks  string          `json:"remarks,omitempty"`
		}{e.Type, timeline, e.Remarks})
	default:
		return json.Marshal(struct {
			Type    EntryType `json:"type"`
			Message string    `json:"message"`
			Remarks string    `json:"remarks,omitempty"`
		}{e.Type, e.Message, e.Remarks})
	}
}

// HasType reports whether any entry has the given type.
func (r ExtractionResult) HasType(t EntryType) bool {
	for _, e := range r {
		if e.Type == t {
			return true
		}
	}
	return false
}
