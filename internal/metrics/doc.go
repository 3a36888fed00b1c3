// Package metrics records bundler run measurements.
//
// The packager reports through the Recorder interface; PrometheusRecorder keeps
// the values in a private registry and writes them as a textfile for the
// node-exporter textfile collector.
package metrics
