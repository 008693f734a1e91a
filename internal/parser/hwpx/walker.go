package hwpx

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// walker emits the blocks of one section tree.
type walker struct {
	reg      *Registry
	segments *segmentResolver
	maxDepth int
	log      *zap.Logger

	out *ir.Document
}

func newWalker(reg *Registry, normalize bool, maxDepth int, log *zap.Logger) *walker {
	return &walker{
		reg: reg,
		segments: &segmentResolver{
			reg:       reg,
			normalize: normalize,
			log:       log,
		},
		maxDepth: maxDepth,
		log:      log,
	}
}

// walkSection returns the blocks of a section root in document order.
func (w *walker) walkSection(root *etree.Element) []ir.Block {
	w.out = ir.NewDocument()
	w.walk(root)
	return w.out.Content
}

// walk visits el depth-first. A table is consumed whole: its descendants are
// never visited again as top-level content.
func (w *walker) walk(el *etree.Element) {
	switch el.Tag {
	case "tbl":
		if table := w.buildTable(el, 0); !table.IsEmpty() {
			w.out.AddTable(table)
		}
		return
	case "p":
		if p := ir.NewParagraph(w.segments.resolve(el)); !p.IsEmpty() {
			w.out.AddParagraph(p)
		}
	}

	for _, child := range el.ChildElements() {
		w.walk(child)
	}
}

// buildTable converts a tbl element. depth is 0 for top-level tables.
func (w *walker) buildTable(tbl *etree.Element, depth int) *ir.Table {
	table := ir.NewTable()
	for _, tr := range childElements(tbl, "tr") {
		var row []ir.Cell
		for _, tc := range childElements(tr, "tc") {
			cell := w.buildCell(tc, depth)
			cell.Merge = resolveCell(tc, w.reg, w.log)
			row = append(row, cell)
		}
		table.AddRow(row)
	}
	table.Normalize()
	return table
}

// buildCell separates the cell's own paragraphs from those of the tables
// nested in it. Nested tables are built first; the paragraphs they contain are
// then skipped when collecting the cell text.
func (w *walker) buildCell(tc *etree.Element, depth int) ir.Cell {
	cell := ir.NewCell()

	nested := outermostTables(tc)
	inNested := make(map[*etree.Element]struct{})
	for _, tbl := range nested {
		for _, p := range descendants(tbl, "p") {
			inNested[p] = struct{}{}
		}
		if depth+1 > w.maxDepth {
			w.log.Warn("nested table exceeds depth limit, dropped",
				zap.Int("depth", depth+1), zap.Int("limit", w.maxDepth))
			continue
		}
		if table := w.buildTable(tbl, depth+1); !table.IsEmpty() {
			cell.NestedTables = append(cell.NestedTables, table)
		}
	}

	for _, p := range descendants(tc, "p") {
		if _, skip := inNested[p]; skip {
			continue
		}
		segs := w.segments.resolve(p)
		if len(segs) == 0 {
			continue
		}
		if n := len(cell.Segments); n > 0 {
			cell.Segments[n-1].Text += " "
		}
		for _, s := range segs {
			cell.Segments = ir.AppendSegment(cell.Segments, s.Text, s.Style)
		}
	}

	cell.Text = ir.JoinSegments(cell.Segments)
	if len(cell.Segments) > 0 {
		style := cell.Segments[0].Style
		cell.Style = &style
	}
	return cell
}

// outermostTables returns the tbl elements below el that are not themselves
// inside another tbl below el.
func outermostTables(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	var visit func(*etree.Element)
	visit = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "tbl" {
				out = append(out, child)
				continue
			}
			visit(child)
		}
	}
	visit(el)
	return out
}
