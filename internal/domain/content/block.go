package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// BlockType is the discriminant of a Block on the wire.
type BlockType string

// Block kinds.
const (
	BlockHeading     BlockType = "heading"
	BlockParagraph   BlockType = "paragraph"
	BlockImage       BlockType = "image"
	BlockMath        BlockType = "math"
	BlockCallout     BlockType = "callout"
	BlockBulletList  BlockType = "bulletList"
	BlockAnimation   BlockType = "animation"
	BlockInteractive BlockType = "interactive"
	BlockSpacer      BlockType = "spacer"
	BlockDivider     BlockType = "divider"
)

// Block is one visual unit of a Page. The set of implementations is closed.
type Block interface {
	// Type returns the wire discriminant of the block.
	Type() BlockType
	// PlainText returns the readable text of the block for accessibility
	// and search. Purely visual blocks return "".
	PlainText() string

	isBlock()
}

// Heading is a title line. Level is the optional heading depth.
type Heading struct {
	Segments []Segment `json:"segments"`
	Level    *int      `json:"level,omitempty"`
}

// Paragraph is a run of rich text.
type Paragraph struct {
	Segments []Segment `json:"segments"`
}

// Image displays a picture. Style is a layout hint ("full", "inline", "icon").
type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Style   string `json:"style,omitempty"`
}

// Math displays a LaTeX formula.
type Math struct {
	Latex   string `json:"latex"`
	Caption string `json:"caption,omitempty"`
}

// Callout is a highlighted box. Style is one of "info", "tip", "warning" or
// "example".
type Callout struct {
	Style    string    `json:"style"`
	Title    string    `json:"title,omitempty"`
	Segments []Segment `json:"segments"`
}

// BulletList is a list whose items are rich text.
type BulletList struct {
	Items [][]Segment `json:"items"`
}

// Animation plays an animation resource.
type Animation struct {
	Src      string `json:"src"`
	Autoplay *bool  `json:"autoplay,omitempty"`
	Loop     *bool  `json:"loop,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Interactive embeds a widget identified by ComponentID. Props is an open
// JSON object passed to the widget.
type Interactive struct {
	ComponentID string         `json:"componentId"`
	Props       map[string]any `json:"props,omitempty"`
}

// Spacer adds vertical space. Size is one of "sm", "md" or "lg".
type Spacer struct {
	Size string `json:"size,omitempty"`
}

// Divider is a horizontal rule. Unknown and malformed blocks decode as
// Divider.
type Divider struct{}

func (Heading) Type() BlockType     { return BlockHeading }
func (Paragraph) Type() BlockType   { return BlockParagraph }
func (Image) Type() BlockType       { return BlockImage }
func (Math) Type() BlockType        { return BlockMath }
func (Callout) Type() BlockType     { return BlockCallout }
func (BulletList) Type() BlockType  { return BlockBulletList }
func (Animation) Type() BlockType   { return BlockAnimation }
func (Interactive) Type() BlockType { return BlockInteractive }
func (Spacer) Type() BlockType      { return BlockSpacer }
func (Divider) Type() BlockType     { return BlockDivider }

func (Heading) isBlock()     {}
func (Paragraph) isBlock()   {}
func (Image) isBlock()       {}
func (Math) isBlock()        {}
func (Callout) isBlock()     {}
func (BulletList) isBlock()  {}
func (Animation) isBlock()   {}
func (Interactive) isBlock() {}
func (Spacer) isBlock()      {}
func (Divider) isBlock()     {}

func (b Heading) PlainText() string   { return Flatten(b.Segments) }
func (b Paragraph) PlainText() string { return Flatten(b.Segments) }

func (b Image) PlainText() string {
	if b.Alt != "" {
		return b.Alt
	}
	return b.Caption
}

func (b Math) PlainText() string {
	if b.Caption != "" {
		return b.Caption
	}
	return b.Latex
}

func (b Callout) PlainText() string {
	text := Flatten(b.Segments)
	if b.Title == "" {
		return text
	}
	return strings.TrimSuffix(b.Title+"\n"+text, "\n")
}

func (b BulletList) PlainText() string { return FlattenItems(b.Items) }
func (b Animation) PlainText() string  { return b.Caption }
func (Interactive) PlainText() string  { return "" }
func (Spacer) PlainText() string       { return "" }
func (Divider) PlainText() string      { return "" }

// marshalTagged marshals body, a plain struct without its own MarshalJSON,
// and prepends the discriminant as the "type" member.
func marshalTagged(kind string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	if len(data) > 2 {
		buf.WriteByte(',')
		buf.Write(data[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func (b Heading) MarshalJSON() ([]byte, error) {
	type wire Heading
	return marshalTagged(string(BlockHeading), wire(b))
}

func (b Paragraph) MarshalJSON() ([]byte, error) {
	type wire Paragraph
	return marshalTagged(string(BlockParagraph), wire(b))
}

func (b Image) MarshalJSON() ([]byte, error) {
	type wire Image
	return marshalTagged(string(BlockImage), wire(b))
}

func (b Math) MarshalJSON() ([]byte, error) {
	type wire Math
	return marshalTagged(string(BlockMath), wire(b))
}

func (b Callout) MarshalJSON() ([]byte, error) {
	type wire Callout
	return marshalTagged(string(BlockCallout), wire(b))
}

func (b BulletList) MarshalJSON() ([]byte, error) {
	type wire BulletList
	return marshalTagged(string(BlockBulletList), wire(b))
}

func (b Animation) MarshalJSON() ([]byte, error) {
	type wire Animation
	return marshalTagged(string(BlockAnimation), wire(b))
}

func (b Interactive) MarshalJSON() ([]byte, error) {
	type wire Interactive
	return marshalTagged(string(BlockInteractive), wire(b))
}

func (b Spacer) MarshalJSON() ([]byte, error) {
	type wire Spacer
	return marshalTagged(string(BlockSpacer), wire(b))
}

func (Divider) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"divider"}`), nil
}

// DecodeBlock decodes one page block, dispatching on its "type" member.
// Unknown types and blocks missing a required member decode as Divider.
func DecodeBlock(raw json.RawMessage) Block {
	f, ok := parseFields(raw)
	if !ok {
		return Divider{}
	}
	if b, ok := decodeBlockFields(f); ok {
		return b
	}
	return Divider{}
}

func decodeBlockFields(f fields) (Block, bool) {
	switch BlockType(f.typeTag()) {
	case BlockHeading:
		segments, ok := segmentsField(f, "segments")
		if !ok {
			return nil, false
		}
		return Heading{Segments: segments, Level: optionalPtr[int](f, "level")}, true

	case BlockParagraph:
		segments, ok := segmentsField(f, "segments")
		if !ok {
			return nil, false
		}
		return Paragraph{Segments: segments}, true

	case BlockImage:
		src, ok := field[string](f, "src")
		if !ok {
			return nil, false
		}
		return Image{
			Src:     src,
			Alt:     optional[string](f, "alt"),
			Caption: optional[string](f, "caption"),
			Style:   optional[string](f, "style"),
		}, true

	case BlockMath:
		latex, ok := field[string](f, "latex")
		if !ok {
			return nil, false
		}
		return Math{Latex: latex, Caption: optional[string](f, "caption")}, true

	case BlockCallout:
		style, ok := field[string](f, "style")
		if !ok {
			return nil, false
		}
		segments, ok := segmentsField(f, "segments")
		if !ok {
			return nil, false
		}
		return Callout{Style: style, Title: optional[string](f, "title"), Segments: segments}, true

	case BlockBulletList:
		raw, present := f["items"]
		if !present {
			return nil, false
		}
		items, ok := decodeSegmentLists(raw)
		if !ok {
			return nil, false
		}
		return BulletList{Items: items}, true

	case BlockAnimation:
		src, ok := field[string](f, "src")
		if !ok {
			return nil, false
		}
		return Animation{
			Src:      src,
			Autoplay: optionalPtr[bool](f, "autoplay"),
			Loop:     optionalPtr[bool](f, "loop"),
			Caption:  optional[string](f, "caption"),
		}, true

	case BlockInteractive:
		componentID, ok := field[string](f, "componentId")
		if !ok {
			return nil, false
		}
		props := optional[map[string]any](f, "props")
		if len(props) == 0 {
			props = nil
		}
		return Interactive{ComponentID: componentID, Props: props}, true

	case BlockSpacer:
		return Spacer{Size: optional[string](f, "size")}, true

	case BlockDivider:
		return Divider{}, true
	}
	return nil, false
}
