package content

import (
	"encoding/json"
	"strings"
)

// DataKind is the discriminant of a Data payload on the wire.
type DataKind string

// Data kinds. Text, image and interactive are the legacy flat formats.
const (
	KindPage        DataKind = "page"
	KindQuestion    DataKind = "question"
	KindText        DataKind = "text"
	KindImage       DataKind = "image"
	KindInteractive DataKind = "interactive"
)

// Data is the payload of a lesson content item. The set of implementations
// is closed.
type Data interface {
	// Kind returns the wire discriminant of the payload.
	Kind() DataKind
	// PlainText returns the readable text of the payload.
	PlainText() string

	isData()
}

// Page is a composed page of blocks.
type Page struct {
	Blocks []Block `json:"blocks"`
}

// Question is a single-choice question. CorrectIndex is the index of the
// correct option. The segment variants, when present, carry the rich-text
// rendering of the matching plain field.
type Question struct {
	Question            string      `json:"question"`
	QuestionSegments    []Segment   `json:"questionSegments,omitempty"`
	Options             []string    `json:"options"`
	OptionSegments      [][]Segment `json:"optionSegments,omitempty"`
	CorrectIndex        int         `json:"correctIndex"`
	Explanation         string      `json:"explanation,omitempty"`
	ExplanationSegments []Segment   `json:"explanationSegments,omitempty"`
}

// Text is the legacy plain text payload.
type Text struct {
	Text       string          `json:"text"`
	Formatting *TextFormatting `json:"formatting,omitempty"`
}

// TextFormatting is whole-item formatting of a legacy Text payload.
type TextFormatting struct {
	Bold        *bool `json:"bold,omitempty"`
	Superscript *bool `json:"superscript,omitempty"`
}

// LegacyImage is the legacy image payload.
type LegacyImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// LegacyInteractive is the legacy widget payload with string props.
type LegacyInteractive struct {
	ComponentID string            `json:"componentId"`
	Props       map[string]string `json:"props,omitempty"`
}

func (Page) Kind() DataKind              { return KindPage }
func (Question) Kind() DataKind          { return KindQuestion }
func (Text) Kind() DataKind              { return KindText }
func (LegacyImage) Kind() DataKind       { return KindImage }
func (LegacyInteractive) Kind() DataKind { return KindInteractive }

func (Page) isData()              {}
func (Question) isData()          {}
func (Text) isData()              {}
func (LegacyImage) isData()       {}
func (LegacyInteractive) isData() {}

// PlainText joins the readable text of the page's blocks with newlines.
func (p Page) PlainText() string {
	parts := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		if text := b.PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// PlainText returns the prompt followed by one line per option.
func (q Question) PlainText() string {
	parts := make([]string, 0, len(q.Options)+1)
	parts = append(parts, q.Prompt())
	for i := range q.Options {
		parts = append(parts, q.Option(i))
	}
	return strings.Join(parts, "\n")
}

func (t Text) PlainText() string            { return t.Text }
func (i LegacyImage) PlainText() string     { return i.Caption }
func (LegacyInteractive) PlainText() string { return "" }

// Prompt returns the question text, preferring the rich-text rendering.
func (q Question) Prompt() string {
	if len(q.QuestionSegments) > 0 {
		return Flatten(q.QuestionSegments)
	}
	return q.Question
}

// Option returns the text of option i, preferring the rich-text rendering.
// It returns "" when i is out of range.
func (q Question) Option(i int) string {
	if i < 0 {
		return ""
	}
	if i < len(q.OptionSegments) && len(q.OptionSegments[i]) > 0 {
		return Flatten(q.OptionSegments[i])
	}
	if i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

// ExplanationText returns the explanation, preferring the rich-text rendering.
func (q Question) ExplanationText() string {
	if len(q.ExplanationSegments) > 0 {
		return Flatten(q.ExplanationSegments)
	}
	return q.Explanation
}

// IsCorrect reports whether option i is the correct answer.
func (q Question) IsCorrect(i int) bool {
	return i >= 0 && i < len(q.Options) && i == q.CorrectIndex
}

func (p Page) MarshalJSON() ([]byte, error) {
	type wire Page
	if p.Blocks == nil {
		p.Blocks = []Block{}
	}
	return marshalTagged(string(KindPage), wire(p))
}

func (q Question) MarshalJSON() ([]byte, error) {
	type wire Question
	if q.Options == nil {
		q.Options = []string{}
	}
	return marshalTagged(string(KindQuestion), wire(q))
}

func (t Text) MarshalJSON() ([]byte, error) {
	type wire Text
	return marshalTagged(string(KindText), wire(t))
}

func (i LegacyImage) MarshalJSON() ([]byte, error) {
	type wire LegacyImage
	return marshalTagged(string(KindImage), wire(i))
}

func (i LegacyInteractive) MarshalJSON() ([]byte, error) {
	type wire LegacyInteractive
	return marshalTagged(string(KindInteractive), wire(i))
}

// Empty returns the placeholder payload used when an item cannot be decoded.
func Empty() Data {
	return Text{}
}

// candidate is one variant probe. It reports false when the object is not
// structurally a value of the variant.
type candidate struct {
	kind   DataKind
	decode func(fields) (Data, bool)
}

// candidates are probed in priority order.
var candidates = []candidate{
	{KindPage, decodePage},
	{KindQuestion, decodeQuestion},
	{KindText, decodeText},
	{KindImage, decodeLegacyImage},
	{KindInteractive, decodeLegacyInteractive},
}

// DecodeData decodes an item payload. The first candidate that is
// structurally valid and whose "type" literal matches wins. Anything else
// decodes as an empty Text.
func DecodeData(raw json.RawMessage) Data {
	f, ok := parseFields(raw)
	if !ok {
		return Empty()
	}
	tag := DataKind(f.typeTag())
	for _, c := range candidates {
		if c.kind != tag {
			continue
		}
		if d, ok := c.decode(f); ok {
			return d
		}
	}
	return Empty()
}

func decodePage(f fields) (Data, bool) {
	var elems []json.RawMessage
	raw, ok := f["blocks"]
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	blocks := make([]Block, len(elems))
	for i, elem := range elems {
		blocks[i] = DecodeBlock(elem)
	}
	return Page{Blocks: blocks}, true
}

func decodeQuestion(f fields) (Data, bool) {
	question, ok := field[string](f, "question")
	if !ok {
		return nil, false
	}
	options, ok := field[[]string](f, "options")
	if !ok {
		return nil, false
	}
	correct, ok := field[int](f, "correctIndex")
	if !ok {
		return nil, false
	}

	q := Question{
		Question:            question,
		QuestionSegments:    optionalSegments(f, "questionSegments"),
		Options:             options,
		CorrectIndex:        correct,
		Explanation:         optional[string](f, "explanation"),
		ExplanationSegments: optionalSegments(f, "explanationSegments"),
	}
	if raw, ok := f["optionSegments"]; ok && !isNull(raw) {
		if lists, ok := decodeSegmentLists(raw); ok && len(lists) > 0 {
			q.OptionSegments = lists
		}
	}
	return q, true
}

func decodeText(f fields) (Data, bool) {
	text, ok := field[string](f, "text")
	if !ok {
		return nil, false
	}
	t := Text{Text: text}
	if ff, ok := field[fields](f, "formatting"); ok {
		t.Formatting = &TextFormatting{
			Bold:        optionalPtr[bool](ff, "bold"),
			Superscript: optionalPtr[bool](ff, "superscript"),
		}
	}
	return t, true
}

func decodeLegacyImage(f fields) (Data, bool) {
	url, ok := field[string](f, "url")
	if !ok {
		return nil, false
	}
	return LegacyImage{URL: url, Caption: optional[string](f, "caption")}, true
}

func decodeLegacyInteractive(f fields) (Data, bool) {
	componentID, ok := field[string](f, "componentId")
	if !ok {
		return nil, false
	}
	props := optional[map[string]string](f, "props")
	if len(props) == 0 {
		props = nil
	}
	return LegacyInteractive{ComponentID: componentID, Props: props}, true
}
