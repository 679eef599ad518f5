// Package telemetry wires OpenTelemetry for the planner API and worker.
//
// Traces, logs and metrics are exported over OTLP HTTP. The exporter
// endpoint may include a base path (for example a Grafana Cloud "/otlp"
// gateway); signal paths are derived from it.
package telemetry
