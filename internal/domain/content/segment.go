package content

import (
	"encoding/json"
	"strings"
)

// Color tokens a segment may reference. Renderers map them to the palette.
const (
	ColorAccent    = "accent"
	ColorSecondary = "secondary"
	ColorSuccess   = "success"
	ColorWarning   = "warning"
	ColorBlue      = "blue"
	ColorPurple    = "purple"
)

// Segment is a run of text with uniform formatting. A Segment with Latex set
// renders Text as inline math; Definition, when set, names a tappable
// definition for the run.
type Segment struct {
	Text       string `json:"text"`
	Bold       bool   `json:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty"`
	Color      string `json:"color,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	Definition string `json:"definition,omitempty"`
	Latex      bool   `json:"latex,omitempty"`
}

// Plain returns an unformatted segment.
func Plain(text string) Segment {
	return Segment{Text: text}
}

// Flatten concatenates the text of segments in order without separators.
func Flatten(segments []Segment) string {
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return segments[0].Text
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// FlattenItems flattens each item and joins the results with newlines.
func FlattenItems(items [][]Segment) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = Flatten(item)
	}
	return strings.Join(lines, "\n")
}

// decodeSegment decodes one segment. A segment needs its text; formatting
// members that are absent or malformed are left unset.
func decodeSegment(raw json.RawMessage) (Segment, bool) {
	f, ok := parseFields(raw)
	if !ok {
		return Segment{}, false
	}
	text, ok := field[string](f, "text")
	if !ok {
		return Segment{}, false
	}
	return Segment{
		Text:       text,
		Bold:       optional[bool](f, "bold"),
		Italic:     optional[bool](f, "italic"),
		Color:      optional[string](f, "color"),
		Underline:  optional[bool](f, "underline"),
		Definition: optional[string](f, "definition"),
		Latex:      optional[bool](f, "latex"),
	}, true
}

// decodeSegments decodes a JSON array of segments, skipping elements that are
// not segments. It reports false when raw is not an array.
func decodeSegments(raw json.RawMessage) ([]Segment, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	segments := make([]Segment, 0, len(elems))
	for _, elem := range elems {
		if s, ok := decodeSegment(elem); ok {
			segments = append(segments, s)
		}
	}
	return segments, true
}

// decodeSegmentLists decodes a JSON array of segment arrays. Elements that are
// not arrays decode as empty lists so positions are preserved.
func decodeSegmentLists(raw json.RawMessage) ([][]Segment, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	lists := make([][]Segment, len(elems))
	for i, elem := range elems {
		segments, ok := decodeSegments(elem)
		if !ok {
			segments = []Segment{}
		}
		lists[i] = segments
	}
	return lists, true
}

// segmentsField decodes a required segment array member.
func segmentsField(f fields, key string) ([]Segment, bool) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return decodeSegments(raw)
}

// optionalSegments decodes an optional segment array member. Absent, malformed
// and empty arrays all decode as nil.
func optionalSegments(f fields, key string) []Segment {
	segments, ok := segmentsField(f, key)
	if !ok || len(segments) == 0 {
		return nil
	}
	return segments
}
