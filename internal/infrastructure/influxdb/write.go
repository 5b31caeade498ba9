package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

// Measurements written by the service.
const (
	// MeasurementDirectives holds one point per directive.
	MeasurementDirectives = "directive_metrics"
	// MeasurementCatalogReloads holds one point per catalog reload attempt.
	MeasurementCatalogReloads = "catalog_reloads"
)

// DirectivePoint builds the point for a directive outcome.
//
// Tags: version, namespace, name, outcome and (when set) error_type.
// Fields: duration_ms. The outcome timestamp is used when present.
func DirectivePoint(o smarthome.Outcome) *write.Point {
	tags := map[string]string{
		"version":   o.PayloadVersion,
		"namespace": o.Namespace,
		"name":      o.Name,
		"outcome":   string(o.Result),
	}
	if o.ErrorType != "" {
		tags["error_type"] = o.ErrorType
	}

	ts := o.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		MeasurementDirectives,
		tags,
		map[string]any{
			"duration_ms": o.DurationMS,
		},
		ts,
	)
}

// WriteDirectiveMetric queues a directive_metrics point. Non-blocking.
func (c *Client) WriteDirectiveMetric(o smarthome.Outcome) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(DirectivePoint(o))
}

// Record implements smarthome.Recorder.
func (c *Client) Record(_ context.Context, o smarthome.Outcome) {
	c.WriteDirectiveMetric(o)
}

// CatalogReloaded implements device.ReloadObserver.
//
// Tags: trigger, result (ok/failed). Fields: appliances, duration_ms.
func (c *Client) CatalogReloaded(r device.ReloadReport) {
	result := "ok"
	if !r.Succeeded() {
		result = "failed"
	}
	c.WritePoint(MeasurementCatalogReloads,
		map[string]string{
			"trigger": r.Trigger,
			"result":  result,
		},
		map[string]any{
			"appliances":  r.Appliances,
			"duration_ms": r.Duration.Milliseconds(),
		},
	)
}

// WritePoint writes a custom point stamped with the current time.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
