package docspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// Format is an output encoding of the document tree.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatText}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		names := make([]string, len(Formats))
		for i, f := range Formats {
			names[i] = string(f)
		}
		return "", fmt.Errorf("unsupported output format: %q (use %s)", s, strings.Join(names, ", "))
	}
}

// Encode writes tree to w. pretty only affects JSON.
func Encode(w io.Writer, tree *Tree, format Format, pretty bool) error {
	switch format {
	case FormatJSON:
		data, err := tree.MarshalJSON()
		if err != nil {
			return err
		}
		if pretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, data, "", "  "); err != nil {
				return err
			}
			data = buf.Bytes()
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatText:
		return WriteText(w, tree)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

// MarshalJSON writes metadata first, then the document entries in order.
// Non-ASCII text and HTML characters are written unescaped.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t.Metadata != nil {
		buf.WriteString(`"metadata":`)
		if err := writeJSON(&buf, t.Metadata); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	buf.WriteString(`"document":{`)
	for i, e := range t.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, e.value()); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", e.Key, err)
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// MarshalYAML builds an ordered mapping node so entry order survives encoding.
func (t *Tree) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if t.Metadata != nil {
		if err := appendPair(root, "metadata", t.Metadata); err != nil {
			return nil, err
		}
	}

	document := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.Entries {
		if err := appendPair(document, e.Key, e.value()); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", e.Key, err)
		}
	}
	root.Content = append(root.Content, scalar("document"), document)
	return root, nil
}

func appendPair(m *yaml.Node, key string, v any) error {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return err
	}
	m.Content = append(m.Content, scalar(key), &n)
	return nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func (e Entry) value() any {
	if e.Paragraph != nil {
		return e.Paragraph
	}
	return e.Table
}

// WriteText writes a human-readable summary: paragraph text, tables as
// pipe-delimited rows, nested tables indented under their cell.
func WriteText(w io.Writer, tree *Tree) error {
	var sb strings.Builder
	if m := tree.Metadata; m != nil {
		if m.Title != "" {
			fmt.Fprintf(&sb, "# %s\n", m.Title)
		}
		if m.Author != "" {
			fmt.Fprintf(&sb, "author: %s\n", m.Author)
		}
		sb.WriteString("\n")
	}

	for _, e := range tree.Entries {
		switch {
		case e.Paragraph != nil:
			fmt.Fprintf(&sb, "[%s] %s\n", e.Key, e.Paragraph.Text)
		case e.Table != nil:
			fmt.Fprintf(&sb, "[%s] %dx%d\n", e.Key, len(e.Table.Rows), tableCols(e.Table))
			writeTable(&sb, e.Table, "")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTable(sb *strings.Builder, t *TableNode, indent string) {
	for r, row := range t.Rows {
		sb.WriteString(indent)
		sb.WriteString("|")
		for _, c := range row {
			sb.WriteString(" ")
			sb.WriteString(cellText(c.Text))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")

		for col, c := range row {
			for i, nested := range c.NestedTables {
				fmt.Fprintf(sb, "%s  (%d,%d) nested %d:\n", indent, r, col, i+1)
				writeTable(sb, &nested, indent+"    ")
			}
		}
	}
}

func tableCols(t *TableNode) int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// cellText keeps a cell on one line.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return s
}

// Render assembles doc and encodes it in one step.
func Render(w io.Writer, doc *ir.Document, defaults Defaults, format Format, pretty bool) error {
	return Encode(w, Assemble(doc, defaults), format, pretty)
}
