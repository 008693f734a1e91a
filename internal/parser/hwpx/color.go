package hwpx

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/lucasb-eyer/go-colorful"
)

// fillRule is one step of the background color priority chain. match reports
// whether the rule applies to the record; once a rule applies its value is
// final, even when it normalizes to absent.
type fillRule struct {
	name  string
	match func(bf *etree.Element) (string, bool)
}

// fillRules are evaluated in order; first match wins.
var fillRules = []fillRule{
	{name: "faceColor", match: faceColor},
	{name: "gradation", match: gradationColor},
	{name: "hatchColor", match: hatchColor},
}

func faceColor(bf *etree.Element) (string, bool) {
	for _, brush := range descendants(bf, "winBrush") {
		face := brush.SelectAttrValue("faceColor", "")
		if face != "" && !strings.EqualFold(face, "none") {
			return face, true
		}
	}
	return "", false
}

func gradationColor(bf *etree.Element) (string, bool) {
	for _, c := range descendants(bf, "color") {
		if v := c.SelectAttrValue("value", ""); v != "" {
			return v, true
		}
	}
	return "", false
}

func hatchColor(bf *etree.Element) (string, bool) {
	for _, brush := range descendants(bf, "winBrush") {
		if hatch := brush.SelectAttrValue("hatchColor", ""); hatch != "" {
			return hatch, true
		}
	}
	return "", false
}

// pickFillColor resolves the background color of a borderFill record.
func pickFillColor(bf *etree.Element) string {
	for _, rule := range fillRules {
		if raw, ok := rule.match(bf); ok {
			return normalizeColor(raw)
		}
	}
	return ""
}

// normalizeColor maps "#RRGGBB" to itself and "#AARRGGBB" to "#RRGGBB".
// Anything else, including non-hex digits, normalizes to "".
func normalizeColor(val string) string {
	if !strings.HasPrefix(val, "#") {
		return ""
	}
	switch len(val) {
	case 7:
	case 9:
		val = "#" + val[3:]
	default:
		return ""
	}
	// Hex scans with Sscanf, which skips spaces; the round trip rejects them.
	c, err := colorful.Hex(val)
	if err != nil || !strings.EqualFold(c.Hex(), val) {
		return ""
	}
	return val
}
