// Package inventory enumerates the source documents to annotate. The
// pipeline never opens the files; it only needs a stable identifier, a
// document type (inferred from filename conventions when the upstream
// metadata carries none), and the source path for bookkeeping.
package inventory

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"shipdocs/internal/schema"
)

// Document is one entry from the upstream document inventory.
type Document struct {
	ID         string
	Type       schema.DocumentType // empty when the convention gives no answer
	SourcePath string
}

// Provider yields the full document inventory.
type Provider interface {
	Documents() ([]Document, error)
}

// DirProvider walks a directory tree of source documents. The identifier
// is the file stem, so it must be unique across the tree.
type DirProvider struct {
	root string
	exts map[string]bool
}

// NewDirProvider scans root for the given extensions (defaults to .pdf).
func NewDirProvider(root string, exts ...string) *DirProvider {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[strings.ToLower(e)] = true
	}
	if len(allowed) == 0 {
		allowed[".pdf"] = true
	}
	return &DirProvider{root: root, exts: allowed}
}

// Documents walks the tree and returns entries sorted by identifier.
func (p *DirProvider) Documents() ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != p.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.exts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		docs = append(docs, Document{
			ID:         stem,
			Type:       InferType(path),
			SourcePath: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// InferType guesses the document type from filename/path conventions.
// Returns "" when nothing matches; the annotation session will then ask
// the annotator to categorize the document.
func InferType(path string) schema.DocumentType {
	p := strings.ToLower(filepath.ToSlash(path))
	base := strings.ToLower(filepath.Base(path))

	switch {
	case strings.Contains(p, "commercial"):
		return schema.CommercialInvoice
	case strings.Contains(p, "invoice"):
		return schema.Invoice
	case strings.Contains(p, "purchase"), strings.HasPrefix(base, "po_"), strings.HasPrefix(base, "po-"):
		return schema.PurchaseOrder
	case strings.Contains(p, "lading"), strings.Contains(p, "bol"):
		return schema.BillOfLading
	case strings.Contains(p, "packing"):
		return schema.PackingList
	case strings.Contains(p, "shipping"):
		return schema.ShippingOrder
	default:
		return ""
	}
}

// Static is a fixed in-memory inventory, useful when upstream metadata
// already carries identifiers and types.
type Static []Document

func (s Static) Documents() ([]Document, error) {
	docs := make([]Document, len(s))
	copy(docs, s)
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
