package hwpx

import (
	"testing"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

func newTestResolver(t *testing.T) *segmentResolver {
	t.Helper()
	return &segmentResolver{reg: testRegistry(t), normalize: true, log: zap.NewNop()}
}

func TestResolveSegments_MergesEqualStyles(t *testing.T) {
	p := parseElement(t, `<hp:p xmlns:hp="urn:p" paraPrIDRef="1">
		<hp:run charPrIDRef="0"><hp:t>Hello </hp:t></hp:run>
		<hp:run charPrIDRef="0"><hp:t>World</hp:t></hp:run>
		<hp:run charPrIDRef="1"><hp:t>!</hp:t></hp:run>
	</hp:p>`)

	segs := newTestResolver(t).resolve(p)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	a := ir.Style{Alignment: ir.AlignCenter, FaceName: "함초롬바탕", HeightPoints: 10}
	b := ir.Style{Alignment: ir.AlignCenter, FaceName: "함초롬돋움", HeightPoints: 16, Bold: true}
	if segs[0].Text != "Hello World" || segs[0].Style != a {
		t.Errorf("unexpected first segment %+v", segs[0])
	}
	if segs[1].Text != "!" || segs[1].Style != b {
		t.Errorf("unexpected second segment %+v", segs[1])
	}
}

func TestResolveSegments_EmptyRunIsNotABoundary(t *testing.T) {
	p := parseElement(t, `<p paraPrIDRef="0">
		<run charPrIDRef="0"><t>a</t></run>
		<run charPrIDRef="1"><t></t></run>
		<run charPrIDRef="1"/>
		<run charPrIDRef="0"><t>b</t></run>
	</p>`)

	segs := newTestResolver(t).resolve(p)

	if len(segs) != 1 || segs[0].Text != "ab" {
		t.Errorf("expected a single 'ab' segment, got %+v", segs)
	}
}

func TestResolveSegments_UnresolvedDefaults(t *testing.T) {
	p := parseElement(t, `<p paraPrIDRef="77">
		<run charPrIDRef="99"><t>x</t></run>
		<run><t>y</t></run>
		<run charPrIDRef="bogus"><t>z</t></run>
	</p>`)

	segs := newTestResolver(t).resolve(p)

	if len(segs) != 1 {
		t.Fatalf("expected one default-styled segment, got %+v", segs)
	}
	want := ir.Style{Alignment: ir.AlignLeft}
	if segs[0].Style != want || segs[0].Text != "xyz" {
		t.Errorf("got %+v, want text 'xyz' style %+v", segs[0], want)
	}
}

func TestResolveSegments_TextFragments(t *testing.T) {
	p := parseElement(t, `<p><run charPrIDRef="0">
		<t>one<tab/>two</t><t><lineBreak/>three</t><ctrl><t>ignored</t></ctrl>
	</run></p>`)

	segs := newTestResolver(t).resolve(p)

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "one\ttwo\nthree" {
		t.Errorf("unexpected text %q", segs[0].Text)
	}
}

func TestResolveSegments_NFC(t *testing.T) {
	p := parseElement(t, "<p><run><t>\u1112\u1161\u11ab</t></run></p>")

	r := newTestResolver(t)
	if got := r.resolve(p)[0].Text; got != "\ud55c" {
		t.Errorf("expected NFC composed text, got %q", got)
	}

	r.normalize = false
	if got := r.resolve(p)[0].Text; got != "\u1112\u1161\u11ab" {
		t.Errorf("expected text untouched, got %q", got)
	}
}

func TestResolveSegments_NoRuns(t *testing.T) {
	segs := newTestResolver(t).resolve(parseElement(t, `<p paraPrIDRef="0"/>`))
	if len(segs) != 0 {
		t.Errorf("expected no segments, got %+v", segs)
	}
}
