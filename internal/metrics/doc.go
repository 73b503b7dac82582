// Package metrics records build observability data.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// be enabled by swapping in a PrometheusRecorder without code changes:
//
//	reg := prometheus.NewRegistry()
//	svc := build.NewService().WithRecorder(metrics.NewPrometheusRecorder(reg))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
