// Package ir defines the normalized, style-resolved document model produced by the HWPX parser.
// The model is the input of the document assembler (internal/docspec).
package ir

// Document is the ordered block sequence extracted from one package.
type Document struct {
	Version  string   `json:"version" yaml:"version"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Content  []Block  `json:"content" yaml:"content"`
}

// Metadata contains document metadata taken from the package manifest.
type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Subject     string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Keywords    string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Created     string `json:"created,omitempty" yaml:"created,omitempty"`
}

// IsEmpty returns true if no metadata field is set.
func (m Metadata) IsEmpty() bool {
	return m == Metadata{}
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
)

// Block is a tagged variant: exactly one of Paragraph or Table is set, matching Type.
type Block struct {
	Type      BlockType  `json:"type" yaml:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty" yaml:"table,omitempty"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Content: make([]Block, 0),
	}
}

// AddParagraph adds a paragraph block to the document.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Content = append(d.Content, Block{
		Type:      BlockTypeParagraph,
		Paragraph: p,
	})
}

// AddTable adds a table block to the document.
func (d *Document) AddTable(t *Table) {
	d.Content = append(d.Content, Block{
		Type:  BlockTypeTable,
		Table: t,
	})
}

// Append adds already-built blocks in order.
func (d *Document) Append(blocks ...Block) {
	d.Content = append(d.Content, blocks...)
}

// Count returns the number of paragraph and table blocks.
func (d *Document) Count() (paragraphs, tables int) {
	for _, b := range d.Content {
		switch b.Type {
		case BlockTypeParagraph:
			paragraphs++
		case BlockTypeTable:
			tables++
		}
	}
	return paragraphs, tables
}
