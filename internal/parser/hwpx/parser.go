// Package hwpx extracts a style-resolved block sequence from HWPX (OWPML) packages.
//
// Extraction runs in two passes over addressable XML trees: the header part is
// read once into a read-only style Registry, then every section part is walked
// depth-first, resolving style references through that registry.
package hwpx

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/ir"
	"github.com/roboco-io/hwpxspec/internal/parser"
)

// Parser parses HWPX documents.
type Parser struct {
	pkg     *Package
	options parser.Options
	log     *zap.Logger

	manifest *Manifest
	registry *Registry
	sections []string
}

var _ parser.Parser = (*Parser)(nil)

// New opens the HWPX file at path and builds its style registry.
func New(path string, opts parser.Options) (*Parser, error) {
	pkg, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HWPX file: %w", err)
	}

	p, err := NewFromPackage(pkg, opts)
	if err != nil {
		pkg.Close()
		return nil, err
	}
	return p, nil
}

// NewFromPackage prepares a parser over an opened package. The parser takes
// ownership of pkg and closes it on Close.
func NewFromPackage(pkg *Package, opts parser.Options) (*Parser, error) {
	log := opts.Log().With(zap.String("package", pkg.Path()))

	p := &Parser{
		pkg:      pkg,
		options:  opts,
		log:      log,
		sections: pkg.SectionNames(),
	}

	if err := p.parseManifest(); err != nil {
		return nil, err
	}

	reg, err := LoadRegistry(pkg, log)
	if err != nil {
		return nil, err
	}
	p.registry = reg

	return p, nil
}

// Extract opens path, parses it and releases the archive on every exit path.
func Extract(path string, opts parser.Options) (*ir.Document, error) {
	p, err := New(path, opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return p.Parse()
}

// Parse implements the Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	doc := ir.NewDocument()

	if p.manifest != nil {
		doc.Metadata = p.manifest.ToMetadata()
	}

	results, err := p.walkSections()
	if err != nil {
		return nil, err
	}
	for _, blocks := range results {
		doc.Append(blocks...)
	}

	paragraphs, tables := doc.Count()
	p.log.Debug("document extracted",
		zap.Int("sections", len(p.sections)),
		zap.Int("paragraphs", paragraphs),
		zap.Int("tables", tables))

	return doc, nil
}

// Close releases resources.
func (p *Parser) Close() error {
	if p.pkg != nil {
		return p.pkg.Close()
	}
	return nil
}

// Registry returns the style registry built from the header part.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Sections returns the section part names in processing order.
func (p *Parser) Sections() []string {
	return p.sections
}

// Manifest returns the parsed manifest, or nil.
func (p *Parser) Manifest() *Manifest {
	return p.manifest
}

// Package returns the underlying package.
func (p *Parser) Package() *Package {
	return p.pkg
}

// parseManifest reads content.hpf when present. A missing manifest is not an
// error; a malformed one is only logged since it carries metadata alone.
func (p *Parser) parseManifest() error {
	name, ok := p.pkg.ManifestName()
	if !ok {
		return nil
	}

	doc, err := p.pkg.ParsePart(name)
	if err != nil {
		if errors.Is(err, ErrMalformedXML) {
			p.log.Warn("ignoring malformed manifest", zap.String("part", name), zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	p.manifest = ReadManifest(doc.Root())
	return nil
}

// walkSections returns each section's blocks, indexed like p.sections.
// Sections share only the read-only registry, so they may be walked in
// parallel; concatenation order is unaffected.
func (p *Parser) walkSections() ([][]ir.Block, error) {
	results := make([][]ir.Block, len(p.sections))
	errs := make([]error, len(p.sections))

	workers := p.options.Workers
	if workers <= 1 || len(p.sections) <= 1 {
		for i, name := range p.sections {
			blocks, err := p.parseSection(name)
			if err != nil {
				return nil, err
			}
			results[i] = blocks
		}
		return results, nil
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, name := range p.sections {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = p.parseSection(name)
		}(i, name)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// parseSection parses a single section part. A section listed but absent
// contributes no blocks.
func (p *Parser) parseSection(name string) ([]ir.Block, error) {
	doc, err := p.pkg.ParsePart(name)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			p.log.Warn("section part missing", zap.String("part", name))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse section %s: %w", name, err)
	}

	w := newWalker(p.registry, p.options.NormalizeText, p.options.TableDepth(), p.log.With(zap.String("section", name)))
	return w.walkSection(doc.Root()), nil
}
