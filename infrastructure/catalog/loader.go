// ABOUTME: Loads catalogue documents from YAML seed files into a content store
// ABOUTME: Documents are grouped by type and normalized to their JSON representation

package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"marketplace-search-api/core/interfaces"
	"marketplace-search-api/core/query"
)

// Writer accepts documents; both stores implement it
type Writer interface {
	Put(ctx context.Context, docs ...query.Document) error
}

// Seed files map a document type to its documents:
//
//	category:
//	  - _id: cat-crm
//	    key: crm
//	    title: CRM
//	software:
//	  - _id: sw-acme
//	    title: Acme CRM
//	    category: {_ref: cat-crm}
//
// A document may also set _type explicitly; it must then agree with its section.
type seedFile map[string][]map[string]any

// Load decodes a seed document stream. Types are returned in name order and
// documents in file order within a type, so references can point anywhere.
func Load(r io.Reader) ([]query.Document, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		if err == io.EOF {
			return []query.Document{}, nil
		}
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	types := make([]string, 0, len(seed))
	for t := range seed {
		types = append(types, t)
	}
	sort.Strings(types)

	seen := make(map[string]string)
	docs := make([]query.Document, 0)
	for _, t := range types {
		for i, raw := range seed[t] {
			if raw == nil {
				return nil, fmt.Errorf("%s[%d]: empty document", t, i)
			}
			doc, err := normalize(raw)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", t, i, err)
			}
			if declared, ok := doc["_type"]; ok && declared != t {
				return nil, fmt.Errorf("%s[%d]: _type %v does not match section", t, i, declared)
			}
			doc["_type"] = t

			id := doc.ID()
			if id == "" {
				return nil, fmt.Errorf("%s[%d]: missing _id", t, i)
			}
			if prev, dup := seen[id]; dup {
				return nil, fmt.Errorf("duplicate _id %q in %s and %s", id, prev, t)
			}
			seen[id] = t
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// LoadFile reads a seed file from disk
func LoadFile(path string) ([]query.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Seed loads the file at path into the store
func Seed(ctx context.Context, store Writer, path string, logger interfaces.Logger) (int, error) {
	docs, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, docs...); err != nil {
		return 0, fmt.Errorf("failed to store catalogue: %w", err)
	}

	if logger != nil {
		logger.Info("Catalogue seeded", map[string]interface{}{
			"path":      path,
			"documents": len(docs),
		})
	}
	return len(docs), nil
}

// normalize converts YAML scalars (ints, timestamps) to the JSON forms the
// stores hold
func normalize(raw map[string]any) (query.Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc query.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
