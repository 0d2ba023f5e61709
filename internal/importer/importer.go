// Package importer applies bulk prospect import documents through the
// synchronization layer.
//
// Documents are YAML, validated against an embedded CUE schema before any
// write happens: a document that fails validation imports nothing. Entries
// whose normalized address already matches one of the owner's prospects are
// skipped rather than duplicated.
package importer

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/doorstep-crm/doorstep/internal/record"
	"github.com/doorstep-crm/doorstep/internal/sync"
)

//go:embed schema.cue
var schemaCUE string

// Document is a validated import document.
type Document struct {
	Prospects []Entry `json:"prospects"`
}

// Entry is one prospect to import. List is optional; the record store's
// default applies when it is empty.
type Entry struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	List     string `json:"list,omitempty"`
}

// Result summarizes an applied import.
type Result struct {
	Imported int
	Skipped  int
}

// Importer validates and applies import documents.
type Importer struct {
	records *record.Store
	coord   *sync.Coordinator
}

// New creates an Importer writing through the given coordinator.
func New(records *record.Store, coord *sync.Coordinator) *Importer {
	return &Importer{records: records, coord: coord}
}

// Parse decodes a YAML document and validates it against the embedded CUE
// schema. Validation failures report the offending field.
func Parse(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("parse import document: %w", err)
	}
	if raw == nil {
		return Document{}, fmt.Errorf("parse import document: empty document")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return Document{}, fmt.Errorf("compile import schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return Document{}, fmt.Errorf("lookup import schema: %w", err)
	}

	unified := def.Unify(ctx.Encode(raw))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Document{}, fmt.Errorf("invalid import document: %w", err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode import document: %w", err)
	}
	return doc, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read import document: %w", err)
	}
	return Parse(data)
}

// Apply imports the document's prospects for the given owner. Entries
// matching an existing prospect by normalized address are counted as
// skipped. The first write error aborts the import; prior entries remain
// applied.
func (i *Importer) Apply(ctx context.Context, doc Document, ownerEmail string) (Result, error) {
	var res Result
	for _, entry := range doc.Prospects {
		if _, exists := i.records.FindByAddress(ownerEmail, entry.Address); exists {
			res.Skipped++
			continue
		}
		if _, err := i.coord.AddProspect(ctx, ownerEmail, entry.FullName, entry.Address, entry.List); err != nil {
			return res, fmt.Errorf("import %q: %w", entry.Address, err)
		}
		res.Imported++
	}
	return res, nil
}
