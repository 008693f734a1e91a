package hwpx

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// resolveCell reads the span, size and background of a tc element.
func resolveCell(tc *etree.Element, reg *Registry, log *zap.Logger) ir.Merge {
	merge := ir.Merge{ColSpan: 1, RowSpan: 1}

	if ref := tc.SelectAttrValue("borderFillIDRef", ""); ref != "" {
		if color, ok := reg.FillColor(ref); ok {
			merge.BgColor = color
		} else if _, known := parseID(ref); !known {
			log.Debug("malformed borderFillIDRef", zap.String("borderFillIDRef", ref))
		}
	}

	if span := childElement(tc, "cellSpan"); span != nil {
		if n, ok := positiveInt(span.SelectAttrValue("colSpan", "")); ok {
			merge.ColSpan = n
		}
		if n, ok := positiveInt(span.SelectAttrValue("rowSpan", "")); ok {
			merge.RowSpan = n
		}
	}

	if size := childElement(tc, "cellSz"); size != nil {
		if n, ok := parseID(size.SelectAttrValue("width", "")); ok {
			merge.Width = &n
		}
		if n, ok := parseID(size.SelectAttrValue("height", "")); ok {
			merge.Height = &n
		}
	}

	return merge
}

// positiveInt keeps spans at 1 or more.
func positiveInt(s string) (int, bool) {
	n, ok := parseID(s)
	if !ok || n < 1 {
		return 0, false
	}
	return n, true
}
