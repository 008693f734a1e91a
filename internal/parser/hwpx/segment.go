package hwpx

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// segmentResolver turns paragraph elements into coalesced segments.
type segmentResolver struct {
	reg       *Registry
	normalize bool
	log       *zap.Logger
}

// resolve returns the minimum-cardinality segment sequence of a paragraph.
// Runs with no text contribute nothing, not even a style boundary.
func (s *segmentResolver) resolve(p *etree.Element) []ir.Segment {
	paraRef := p.SelectAttrValue("paraPrIDRef", "")
	align, ok := s.reg.Alignment(paraRef)
	if !ok && paraRef != "" {
		s.log.Debug("unresolved paragraph style", zap.String("paraPrIDRef", paraRef))
	}

	segs := make([]ir.Segment, 0)
	for _, run := range childElements(p, "run") {
		text := runText(run)
		if text == "" {
			continue
		}
		if s.normalize {
			text = norm.NFC.String(text)
		}
		segs = ir.AppendSegment(segs, text, s.runStyle(run, align))
	}
	return segs
}

func (s *segmentResolver) runStyle(run *etree.Element, align ir.Alignment) ir.Style {
	style := ir.Style{Alignment: align}

	charRef := run.SelectAttrValue("charPrIDRef", "")
	cs, ok := s.reg.CharStyle(charRef)
	if !ok {
		if charRef != "" {
			s.log.Debug("unresolved character style", zap.String("charPrIDRef", charRef))
		}
		return style
	}

	style.FaceName = cs.FaceName
	style.HeightPoints = cs.HeightPoints
	style.Bold = cs.Bold
	return style
}

// runText concatenates the text fragments of a run.
func runText(run *etree.Element) string {
	var sb strings.Builder
	for _, t := range childElements(run, "t") {
		writeFragment(&sb, t)
	}
	return sb.String()
}

// writeFragment writes the character data of a t element. Inline tab and
// lineBreak controls become "\t" and "\n".
func writeFragment(sb *strings.Builder, t *etree.Element) {
	for _, tok := range t.Child {
		switch c := tok.(type) {
		case *etree.CharData:
			sb.WriteString(c.Data)
		case *etree.Element:
			switch c.Tag {
			case "tab":
				sb.WriteByte('\t')
			case "lineBreak":
				sb.WriteByte('\n')
			}
		}
	}
}
