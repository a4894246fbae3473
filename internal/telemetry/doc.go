// Package telemetry provides OpenTelemetry initialization and helpers
// for distributed tracing across the Today's Recipe service.
//
// The package configures OTLP HTTP export for traces and logs, with support
// for hosted collectors and local Tempo backends.
package telemetry
