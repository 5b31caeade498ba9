// Package influxdb records directive metrics in InfluxDB v2.
//
// Every Dispatch outcome becomes one directive_metrics point tagged with
// payload version, namespace, name and outcome, carrying duration_ms.
// Every catalog reload becomes one catalog_reloads point tagged with its
// trigger and result.
// Writes go through the batched, non-blocking write API of
// influxdb-client-go; failures surface through SetOnError.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // metrics off
//	}
//	defer client.Close()
//
//	recorders = append(recorders, client) // smarthome.Recorder
//	observers = append(observers, client) // device.ReloadObserver
//
// # Querying
//
//	from(bucket: "metrics")
//	  |> range(start: -1h)
//	  |> filter(fn: (r) => r._measurement == "directive_metrics")
//	  |> group(columns: ["namespace", "name"])
//	  |> mean()
package influxdb
