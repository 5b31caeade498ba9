package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-voice/internal/device"
)

// defaultReloadTimeout bounds one catalog reload.
const defaultReloadTimeout = 10 * time.Second

// Subscriber is the part of *Client used to register message handlers.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// ReloadHandler returns a handler that replaces the catalog contents from
// src and reports each attempt to obs (may be nil). The message payload is
// ignored. A failed reload leaves the current catalog in place.
func ReloadHandler(catalog *device.Catalog, src device.Source, timeout time.Duration, obs device.ReloadObserver) MessageHandler {
	if timeout <= 0 {
		timeout = defaultReloadTimeout
	}
	return func(_ string, _ []byte) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := device.ReloadAndReport(ctx, catalog, src, device.TriggerMQTT, obs); err != nil {
			return fmt.Errorf("reloading appliance catalog: %w", err)
		}
		return nil
	}
}

// SubscribeCatalogReload wires ReloadHandler to Topics.CatalogReload.
func SubscribeCatalogReload(sub Subscriber, qos byte, catalog *device.Catalog, src device.Source, obs device.ReloadObserver) error {
	return sub.Subscribe(Topics{}.CatalogReload(), qos, ReloadHandler(catalog, src, 0, obs))
}
