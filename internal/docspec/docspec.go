// Package docspec assembles an extracted block sequence into the keyed
// document tree and encodes it as JSON, YAML or plain text.
package docspec

import (
	"fmt"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// Key prefixes. Counters for each kind start at 1 and run independently.
const (
	ParagraphKeyPrefix = "paragraph-"
	TableKeyPrefix     = "table-"
)

// Defaults are the document-level fallbacks for a paragraph's representative
// style and a table's cell style record.
type Defaults struct {
	FaceName  string
	Height    float64
	Alignment ir.Alignment
}

// DefaultDefaults returns the built-in fallbacks.
func DefaultDefaults() Defaults {
	return Defaults{
		FaceName:  "바탕체",
		Height:    11,
		Alignment: ir.AlignLeft,
	}
}

// Tree is the assembled document. Entries keep block emission order.
type Tree struct {
	Metadata *ir.Metadata
	Entries  []Entry
}

// Entry is one keyed block. Exactly one of Paragraph or Table is set.
type Entry struct {
	Key       string
	Paragraph *ParagraphNode
	Table     *TableNode
}

// ParagraphNode is the rendered form of a paragraph block.
type ParagraphNode struct {
	Type     string       `json:"type" yaml:"type"`
	Text     string       `json:"text" yaml:"text"`
	Style    ir.Style     `json:"style" yaml:"style"`
	Segments []ir.Segment `json:"segments" yaml:"segments"`
}

// TableNode is the rendered form of a table. Style is set on top-level
// tables only.
type TableNode struct {
	Type  string       `json:"type,omitempty" yaml:"type,omitempty"`
	Rows  [][]CellNode `json:"rows" yaml:"rows"`
	Style *TableStyle  `json:"style,omitempty" yaml:"style,omitempty"`
}

// TableStyle is the per-table default cell formatting record.
type TableStyle struct {
	CellFont  string         `json:"cellFont" yaml:"cellFont"`
	CellSize  float64        `json:"cellSize" yaml:"cellSize"`
	CellAlign []ir.Alignment `json:"cellAlign" yaml:"cellAlign"`
}

// CellNode is the rendered form of a cell. Style is an ir.Style, or an
// empty record for cells without text.
type CellNode struct {
	Text         string       `json:"text" yaml:"text"`
	Style        any          `json:"style" yaml:"style"`
	Segments     []ir.Segment `json:"segments" yaml:"segments"`
	Merge        ir.Merge     `json:"merge" yaml:"merge"`
	NestedTables []TableNode  `json:"nestedTables" yaml:"nestedTables"`
}

// emptyStyle renders as {} in both JSON and YAML.
type emptyStyle struct{}

// Assemble keys the blocks of doc in emission order. It never reorders,
// filters or merges blocks.
func Assemble(doc *ir.Document, defaults Defaults) *Tree {
	tree := &Tree{Entries: make([]Entry, 0, len(doc.Content))}
	if !doc.Metadata.IsEmpty() {
		meta := doc.Metadata
		tree.Metadata = &meta
	}

	paragraphs, tables := 0, 0
	for _, b := range doc.Content {
		switch b.Type {
		case ir.BlockTypeParagraph:
			paragraphs++
			tree.Entries = append(tree.Entries, Entry{
				Key:       fmt.Sprintf("%s%d", ParagraphKeyPrefix, paragraphs),
				Paragraph: paragraphNode(b.Paragraph, defaults),
			})
		case ir.BlockTypeTable:
			tables++
			node := tableNode(b.Table)
			node.Type = string(ir.BlockTypeTable)
			node.Style = tableStyle(b.Table, defaults)
			tree.Entries = append(tree.Entries, Entry{
				Key:   fmt.Sprintf("%s%d", TableKeyPrefix, tables),
				Table: &node,
			})
		}
	}
	return tree
}

// Counts returns the number of paragraph and table entries.
func (t *Tree) Counts() (paragraphs, tables int) {
	for _, e := range t.Entries {
		if e.Paragraph != nil {
			paragraphs++
		} else if e.Table != nil {
			tables++
		}
	}
	return paragraphs, tables
}

// RepresentativeStyle returns p's first segment style with absent
// properties taken from defaults.
func RepresentativeStyle(p *ir.Paragraph, defaults Defaults) ir.Style {
	style := ir.Style{
		Alignment:    defaults.Alignment,
		FaceName:     defaults.FaceName,
		HeightPoints: defaults.Height,
	}
	first, ok := p.FirstStyle()
	if !ok {
		return style
	}
	if first.Alignment != "" {
		style.Alignment = first.Alignment
	}
	if first.FaceName != "" {
		style.FaceName = first.FaceName
	}
	if first.HeightPoints != 0 {
		style.HeightPoints = first.HeightPoints
	}
	style.Bold = first.Bold
	return style
}

func paragraphNode(p *ir.Paragraph, defaults Defaults) *ParagraphNode {
	return &ParagraphNode{
		Type:     string(ir.BlockTypeParagraph),
		Text:     p.Text,
		Style:    RepresentativeStyle(p, defaults),
		Segments: segments(p.Segments),
	}
}

func tableNode(t *ir.Table) TableNode {
	node := TableNode{Rows: make([][]CellNode, 0, len(t.Rows))}
	for _, row := range t.Rows {
		cells := make([]CellNode, 0, len(row))
		for _, c := range row {
			cells = append(cells, cellNode(c))
		}
		node.Rows = append(node.Rows, cells)
	}
	return node
}

func cellNode(c ir.Cell) CellNode {
	node := CellNode{
		Text:         c.Text,
		Style:        emptyStyle{},
		Segments:     segments(c.Segments),
		Merge:        c.Merge,
		NestedTables: make([]TableNode, 0, len(c.NestedTables)),
	}
	if c.Style != nil {
		node.Style = *c.Style
	}
	for _, nested := range c.NestedTables {
		node.NestedTables = append(node.NestedTables, tableNode(nested))
	}
	return node
}

func tableStyle(t *ir.Table, defaults Defaults) *TableStyle {
	align := make([]ir.Alignment, t.Cols())
	for i := range align {
		align[i] = defaults.Alignment
	}
	return &TableStyle{
		CellFont:  defaults.FaceName,
		CellSize:  defaults.Height,
		CellAlign: align,
	}
}

func segments(segs []ir.Segment) []ir.Segment {
	if segs == nil {
		return make([]ir.Segment, 0)
	}
	return segs
}
