package hwpx

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

// Manifest is the OPF package manifest (content.hpf). It carries document
// metadata only; section order never comes from it.
type Manifest struct {
	Meta  ManifestMeta
	Items []ManifestItem
}

// ManifestMeta holds the metadata fields hwpxspec reports.
type ManifestMeta struct {
	Title       string
	Creator     string
	Subject     string
	Description string
	Date        string
	Language    string
	Keywords    string
}

// ManifestItem is one manifest/item entry.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// ReadManifest reads an OPF package root. Both Dublin Core style elements
// (<dc:creator>) and Hancom <opf:meta name="creator"> entries are accepted;
// the first non-empty value of a field wins.
func ReadManifest(root *etree.Element) *Manifest {
	m := &Manifest{}

	if meta := childElement(root, "metadata"); meta != nil {
		for _, el := range meta.ChildElements() {
			name, value := el.Tag, strings.TrimSpace(el.Text())
			if el.Tag == "meta" {
				name = el.SelectAttrValue("name", "")
				if value == "" {
					// content is a type marker ("text") when the value is inline
					if c := el.SelectAttrValue("content", ""); c != "text" {
						value = c
					}
				}
			}
			m.Meta.set(name, value)
		}
	}

	if manifest := childElement(root, "manifest"); manifest != nil {
		for _, item := range childElements(manifest, "item") {
			m.Items = append(m.Items, ManifestItem{
				ID:        item.SelectAttrValue("id", ""),
				Href:      item.SelectAttrValue("href", ""),
				MediaType: item.SelectAttrValue("media-type", ""),
			})
		}
	}

	return m
}

func (m *ManifestMeta) set(name, value string) {
	if value == "" {
		return
	}
	var field *string
	switch strings.ToLower(name) {
	case "title":
		field = &m.Title
	case "creator":
		field = &m.Creator
	case "subject":
		field = &m.Subject
	case "description":
		field = &m.Description
	case "date", "createddate":
		field = &m.Date
	case "language":
		field = &m.Language
	case "keyword", "keywords":
		field = &m.Keywords
	default:
		return
	}
	if *field == "" {
		*field = value
	}
}

// ToMetadata converts manifest metadata to IR metadata.
func (m *Manifest) ToMetadata() ir.Metadata {
	return ir.Metadata{
		Title:       m.Meta.Title,
		Author:      m.Meta.Creator,
		Subject:     m.Meta.Subject,
		Description: m.Meta.Description,
		Keywords:    m.Meta.Keywords,
		Language:    m.Meta.Language,
		Created:     m.Meta.Date,
	}
}
