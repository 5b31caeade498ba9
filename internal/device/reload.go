package device

import (
	"context"
	"time"
)

// Reload triggers.
const (
	TriggerAPI  = "api"
	TriggerMQTT = "mqtt"
)

// ReloadReport describes one catalog reload attempt.
type ReloadReport struct {
	Trigger    string
	Appliances int // catalog size after the attempt
	Duration   time.Duration
	Err        error
}

// Succeeded reports whether the catalog was replaced.
func (r ReloadReport) Succeeded() bool {
	return r.Err == nil
}

// ReloadObserver is told about every catalog reload attempt.
// Implementations must not block.
type ReloadObserver interface {
	CatalogReloaded(r ReloadReport)
}

// ReloadObservers fans a report out to each observer in order.
type ReloadObservers []ReloadObserver

// CatalogReloaded passes r to every non-nil observer.
func (os ReloadObservers) CatalogReloaded(r ReloadReport) {
	for _, o := range os {
		if o != nil {
			o.CatalogReloaded(r)
		}
	}
}

// ReloadAndReport reloads c from src and reports the attempt to obs,
// which may be nil. The reload error is returned unchanged.
func ReloadAndReport(ctx context.Context, c *Catalog, src Source, trigger string, obs ReloadObserver) error {
	start := time.Now()
	err := c.Reload(ctx, src)
	if obs != nil {
		obs.CatalogReloaded(ReloadReport{
			Trigger:    trigger,
			Appliances: c.Len(),
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	return err
}
