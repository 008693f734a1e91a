package hwpx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// LangHangul is the writing system whose font a character style's face name
// is resolved through.
const LangHangul = "HANGUL"

// ParagraphStyle is a resolved paraPr record.
type ParagraphStyle struct {
	Alignment ir.Alignment
}

// CharacterStyle is a resolved charPr record. Zero HeightPoints and empty
// FaceName mean absent.
type CharacterStyle struct {
	HeightPoints float64
	FaceName     string
	Bold         bool
}

// BorderFill is a resolved borderFill record.
type BorderFill struct {
	FillColor string // "#RRGGBB" or empty
}

// FontTable maps writing system -> font id -> face name.
type FontTable map[string]map[int]string

// Face returns the face name of font id in the given writing system.
func (t FontTable) Face(lang string, id int) (string, bool) {
	face, ok := t[lang][id]
	return face, ok
}

// Registry holds the style lookup tables built from the header part.
// It is read-only once built and safe for concurrent readers.
type Registry struct {
	ParaShapes  map[int]ParagraphStyle
	CharShapes  map[int]CharacterStyle
	Fonts       FontTable
	BorderFills map[int]BorderFill
}

// NewRegistry returns an empty registry. Every lookup on it falls back to
// defaults.
func NewRegistry() *Registry {
	return &Registry{
		ParaShapes:  make(map[int]ParagraphStyle),
		CharShapes:  make(map[int]CharacterStyle),
		Fonts:       make(FontTable),
		BorderFills: make(map[int]BorderFill),
	}
}

// LoadRegistry builds the registry from the package header part. A missing
// header part yields an empty registry; a malformed one is an error.
func LoadRegistry(pkg *Package, log *zap.Logger) (*Registry, error) {
	doc, err := pkg.ParsePart(HeaderPart)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			log.Warn("header part missing, using default styles", zap.String("part", HeaderPart))
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return BuildRegistry(doc.Root(), log), nil
}

// BuildRegistry reads the refList of a header root element.
func BuildRegistry(head *etree.Element, log *zap.Logger) *Registry {
	reg := NewRegistry()
	if head == nil {
		return reg
	}

	refList := childElement(head, "refList")
	if refList == nil {
		log.Warn("header has no refList, using default styles")
		return reg
	}

	if fontfaces := childElement(refList, "fontfaces"); fontfaces != nil {
		reg.readFontFaces(fontfaces, log)
	}
	if charProps := childElement(refList, "charProperties"); charProps != nil {
		reg.readCharProperties(charProps, log)
	}
	if paraProps := childElement(refList, "paraProperties"); paraProps != nil {
		reg.readParaProperties(paraProps, log)
	}
	if borderFills := childElement(refList, "borderFills"); borderFills != nil {
		reg.readBorderFills(borderFills, log)
	}

	log.Debug("style registry built",
		zap.Int("fontGroups", len(reg.Fonts)),
		zap.Int("charShapes", len(reg.CharShapes)),
		zap.Int("paraShapes", len(reg.ParaShapes)),
		zap.Int("borderFills", len(reg.BorderFills)))

	return reg
}

func (r *Registry) readFontFaces(el *etree.Element, log *zap.Logger) {
	for _, ff := range childElements(el, "fontface") {
		lang := ff.SelectAttrValue("lang", "")
		group, ok := r.Fonts[lang]
		if !ok {
			group = make(map[int]string)
			r.Fonts[lang] = group
		}
		for _, font := range childElements(ff, "font") {
			id, ok := parseID(font.SelectAttrValue("id", ""))
			if !ok {
				log.Debug("skipping font with malformed id",
					zap.String("lang", lang), zap.String("id", font.SelectAttrValue("id", "")))
				continue
			}
			group[id] = font.SelectAttrValue("face", "")
		}
	}
}

func (r *Registry) readCharProperties(el *etree.Element, log *zap.Logger) {
	for _, charPr := range childElements(el, "charPr") {
		id, ok := parseID(charPr.SelectAttrValue("id", ""))
		if !ok {
			log.Debug("skipping charPr with malformed id", zap.String("id", charPr.SelectAttrValue("id", "")))
			continue
		}

		var cs CharacterStyle
		if raw := charPr.SelectAttrValue("height", ""); raw != "" {
			if height, ok := parseID(raw); ok {
				cs.HeightPoints = float64(height) / 100
			} else {
				log.Debug("ignoring malformed charPr height", zap.Int("id", id), zap.String("height", raw))
			}
		}

		cs.Bold = childElement(charPr, "bold") != nil

		if fontRef := childElement(charPr, "fontRef"); fontRef != nil {
			if hangul, ok := parseID(fontRef.SelectAttrValue("hangul", "")); ok {
				if face, ok := r.Fonts.Face(LangHangul, hangul); ok {
					cs.FaceName = face
				} else {
					log.Debug("unresolved hangul font reference", zap.Int("charPr", id), zap.Int("font", hangul))
				}
			}
		}

		r.CharShapes[id] = cs
	}
}

var alignments = map[string]ir.Alignment{
	"LEFT":    ir.AlignLeft,
	"RIGHT":   ir.AlignRight,
	"CENTER":  ir.AlignCenter,
	"JUSTIFY": ir.AlignJustify,
	"BOTH":    ir.AlignJustify,
}

func (r *Registry) readParaProperties(el *etree.Element, log *zap.Logger) {
	for _, paraPr := range childElements(el, "paraPr") {
		id, ok := parseID(paraPr.SelectAttrValue("id", ""))
		if !ok {
			log.Debug("skipping paraPr with malformed id", zap.String("id", paraPr.SelectAttrValue("id", "")))
			continue
		}

		ps := ParagraphStyle{Alignment: ir.AlignLeft}
		if align := childElement(paraPr, "align"); align != nil {
			horizontal := strings.ToUpper(align.SelectAttrValue("horizontal", "LEFT"))
			if a, ok := alignments[horizontal]; ok {
				ps.Alignment = a
			}
		}
		r.ParaShapes[id] = ps
	}
}

func (r *Registry) readBorderFills(el *etree.Element, log *zap.Logger) {
	for _, bf := range childElements(el, "borderFill") {
		id, ok := parseID(bf.SelectAttrValue("id", ""))
		if !ok {
			log.Debug("skipping borderFill with malformed id", zap.String("id", bf.SelectAttrValue("id", "")))
			continue
		}
		r.BorderFills[id] = BorderFill{FillColor: pickFillColor(bf)}
	}
}

// Alignment resolves a paraPrIDRef. Unresolved references are left-aligned.
func (r *Registry) Alignment(ref string) (ir.Alignment, bool) {
	if id, ok := parseID(ref); ok {
		if ps, ok := r.ParaShapes[id]; ok {
			return ps.Alignment, true
		}
	}
	return ir.AlignLeft, false
}

// CharStyle resolves a charPrIDRef.
func (r *Registry) CharStyle(ref string) (CharacterStyle, bool) {
	if id, ok := parseID(ref); ok {
		cs, ok := r.CharShapes[id]
		return cs, ok
	}
	return CharacterStyle{}, false
}

// FillColor resolves a borderFillIDRef to a background color.
func (r *Registry) FillColor(ref string) (string, bool) {
	if id, ok := parseID(ref); ok {
		if bf, ok := r.BorderFills[id]; ok {
			return bf.FillColor, bf.FillColor != ""
		}
	}
	return "", false
}

// parseID accepts non-negative decimal integers only.
func parseID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// childElement returns the first direct child with the given local name.
func childElement(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// childElements returns the direct children with the given local name.
func childElements(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// descendants returns every element below el with the given local name, in
// document order.
func descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	var visit func(*etree.Element)
	visit = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == tag {
				out = append(out, child)
			}
			visit(child)
		}
	}
	visit(el)
	return out
}
