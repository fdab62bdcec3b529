package plan

import "github.com/hupe1980/querygate/index"

// CatalogProvider resolves relation names to the embedded engine's typed
// schemas. Absence of a mapping is a resolution failure, answered by
// falling back to the host.
type CatalogProvider interface {
	ResolveTable(name string) (*index.Schema, bool)
}

// StaticCatalog is a fixed name→schema CatalogProvider, useful for tests
// and single-session setups.
type StaticCatalog map[string]*index.Schema

// ResolveTable implements CatalogProvider.
func (c StaticCatalog) ResolveTable(name string) (*index.Schema, bool) {
	s, ok := c[name]
	return s, ok
}
