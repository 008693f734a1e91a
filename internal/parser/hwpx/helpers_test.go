package hwpx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// part is a named archive entry used to build fixtures.
type part struct {
	name    string
	content string
}

const headerXML = `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head"
         xmlns:hc="http://www.hancom.co.kr/hwpml/2011/core">
  <hh:refList>
    <hh:fontfaces itemCnt="2">
      <hh:fontface lang="HANGUL" fontCnt="2">
        <hh:font id="0" face="함초롬돋움" type="TTF"/>
        <hh:font id="1" face="함초롬바탕" type="TTF"/>
      </hh:fontface>
      <hh:fontface lang="LATIN" fontCnt="1">
        <hh:font id="0" face="Arial" type="TTF"/>
      </hh:fontface>
    </hh:fontfaces>
    <hh:borderFills itemCnt="3">
      <hh:borderFill id="1"/>
      <hh:borderFill id="2">
        <hc:fillBrush><hc:winBrush faceColor="#FFD8D8D8" hatchColor="#999999" alpha="0"/></hc:fillBrush>
      </hh:borderFill>
      <hh:borderFill id="3">
        <hc:fillBrush><hc:winBrush faceColor="none" hatchColor="#123456" alpha="0"/></hc:fillBrush>
      </hh:borderFill>
    </hh:borderFills>
    <hh:charProperties itemCnt="3">
      <hh:charPr id="0" height="1000"><hh:fontRef hangul="1" latin="0"/></hh:charPr>
      <hh:charPr id="1" height="1600"><hh:fontRef hangul="0" latin="0"/><hh:bold/></hh:charPr>
      <hh:charPr id="2" height="abc"><hh:fontRef hangul="9" latin="0"/></hh:charPr>
    </hh:charProperties>
    <hh:paraProperties itemCnt="3">
      <hh:paraPr id="0"><hh:align horizontal="JUSTIFY" vertical="BASELINE"/></hh:paraPr>
      <hh:paraPr id="1"><hh:align horizontal="CENTER"/></hh:paraPr>
      <hh:paraPr id="2"/>
    </hh:paraProperties>
  </hh:refList>
</hh:head>`

// section wraps body content in a section root with the usual namespaces.
func section(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section"
        xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` + body + `</hs:sec>`
}

// zipBytes builds an in-memory archive from parts, in order.
func zipBytes(t *testing.T, parts ...part) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		addZipFile(t, w, p.name, []byte(p.content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// createTestHWPX writes parts to an .hwpx file under a temp dir.
func createTestHWPX(t *testing.T, parts ...part) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.hwpx")
	if err := os.WriteFile(path, zipBytes(t, parts...), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func addZipFile(t *testing.T, w *zip.Writer, name string, content []byte) {
	t.Helper()
	f, err := w.Create(name)
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write(content); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
}

func parseElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc.Root()
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return BuildRegistry(parseElement(t, headerXML), zap.NewNop())
}
