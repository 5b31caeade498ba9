// Package mqtt connects Gray Logic Voice to the site MQTT broker.
//
// The broker is optional. When enabled the service:
//   - publishes every directive outcome on
//     graylogic/voice/directive/{namespace}/{name}
//   - listens on graylogic/voice/catalog/reload and swaps the appliance
//     catalog from its source when a message arrives
//   - publishes the result of every catalog reload on
//     graylogic/voice/catalog/reloaded
//   - keeps a retained online/offline status on graylogic/voice/status,
//     with a Last Will so a crash is visible to other site services
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	events := mqtt.NewEventPublisher(client, logger)
//	go events.Run(ctx)
//
//	err = mqtt.SubscribeCatalogReload(client, client.QoS(), catalog, source, events)
//
// # Security
//
// Outcome payloads never carry bearer tokens or stream credentials. Use
// TLS (mqtt.broker.tls) when the broker is not on localhost.
package mqtt
