package ir

import "strings"

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignRight   Alignment = "right"
	AlignCenter  Alignment = "center"
	AlignJustify Alignment = "justify"
)

// Style is the resolved style of a segment. The zero value of FaceName and
// HeightPoints means the property is absent. Style is comparable with ==,
// which is what segment coalescing relies on.
type Style struct {
	Alignment    Alignment `json:"alignment" yaml:"alignment"`
	FaceName     string    `json:"faceName,omitempty" yaml:"faceName,omitempty"`
	HeightPoints float64   `json:"heightPoints,omitempty" yaml:"heightPoints,omitempty"`
	Bold         bool      `json:"bold" yaml:"bold"`
}

// Segment is a maximal span of text sharing one resolved style.
type Segment struct {
	Text  string `json:"text" yaml:"text"`
	Style Style  `json:"style" yaml:"style"`
}

// Paragraph is a top-level text paragraph.
type Paragraph struct {
	Text     string    `json:"text" yaml:"text"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// NewParagraph creates a paragraph whose text is the concatenation of segs.
func NewParagraph(segs []Segment) *Paragraph {
	if segs == nil {
		segs = make([]Segment, 0)
	}
	return &Paragraph{
		Text:     JoinSegments(segs),
		Segments: segs,
	}
}

// IsEmpty returns true if the paragraph has no visible text.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// FirstStyle returns the style of the first segment.
func (p *Paragraph) FirstStyle() (Style, bool) {
	if len(p.Segments) == 0 {
		return Style{}, false
	}
	return p.Segments[0].Style, true
}

// AppendSegment appends text with the given style, merging into the last
// segment when its style is identical. Empty text is ignored.
func AppendSegment(segs []Segment, text string, style Style) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Style == style {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Text: text, Style: style})
}

// Coalesce returns segs with adjacent equal-style segments merged.
// Applying it to its own output is a no-op.
func Coalesce(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		out = AppendSegment(out, s.Text, s.Style)
	}
	return out
}

// JoinSegments concatenates segment text in order.
func JoinSegments(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
