package device

import (
	"context"
	"fmt"
	"sync"
)

// Source supplies the appliance records a Catalog is built from.
// SQLiteRepository and FileSource implement it.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// Catalog is the read-only set of known appliances.
//
// It is constructed once at startup and injected into the dispatcher.
// Record order is preserved; discovery responses list appliances in the
// same order on every call. Replace swaps the whole set under a write
// lock (single writer, many readers) and is the only mutation.
//
// All methods are safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	records []*Record
	index   map[string]int
}

// NewCatalog validates records and builds a catalog from them.
// Returns ErrInvalidRecord or ErrApplianceExists for bad input.
func NewCatalog(records []Record) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(records); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog builds a catalog from a source.
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	records, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appliances: %w", err)
	}
	return NewCatalog(records)
}

// Replace swaps the catalog contents. On error the previous contents stay.
func (c *Catalog) Replace(records []Record) error {
	built := make([]*Record, 0, len(records))
	index := make(map[string]int, len(records))

	for i := range records {
		r := records[i].DeepCopy()
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := index[r.ApplianceID]; dup {
			return fmt.Errorf("%w: %s", ErrApplianceExists, r.ApplianceID)
		}
		r.normalise()
		index[r.ApplianceID] = len(built)
		built = append(built, r)
	}

	c.mu.Lock()
	c.records = built
	c.index = index
	c.mu.Unlock()
	return nil
}

// Reload re-reads the source and replaces the catalog contents.
func (c *Catalog) Reload(ctx context.Context, src Source) error {
	records, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("loading appliances: %w", err)
	}
	return c.Replace(records)
}

// Records returns deep copies of every record in catalog order.
func (c *Catalog) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, *r.DeepCopy())
	}
	return out
}

// Lookup returns a copy of the record with the given appliance ID.
// Returns ErrApplianceNotFound if it is not in the catalog.
func (c *Catalog) Lookup(id string) (*Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrApplianceNotFound, id)
	}
	return c.records[i].DeepCopy(), nil
}

// Len returns the number of appliances in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
