package catalog

import "sync"

var (
	defaultMu      sync.Mutex
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog, creating it with DefaultOptions on
// first use. Prefer passing an explicit *Catalog where possible.
func Default() *Catalog {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCatalog == nil {
		defaultCatalog = New(DefaultOptions())
	}
	return defaultCatalog
}

// DestroyDefault clears the process-wide catalog and drops it. The next call
// to Default starts from an empty catalog.
func DestroyDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCatalog == nil {
		return
	}
	defaultCatalog.RemoveAll()
	defaultCatalog = nil
}
