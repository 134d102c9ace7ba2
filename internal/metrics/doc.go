// Package metrics provides the metrics hooks used by the splice engine.
//
// Components receive a Recorder through dependency injection. The default is
// NoopRecorder, so the engine never checks for nil:
//
//	p := preprocess.New(opts, preprocess.WithRecorder(metrics.NoopRecorder{}))
//
// When a metrics file is requested, a PrometheusRecorder bound to a private
// registry collects the run and WriteTextfile writes the registry in the text
// exposition format read by the node_exporter textfile collector:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	err := metrics.WriteTextfile(path, reg)
package metrics
