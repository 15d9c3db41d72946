// Package tracing wraps OpenTelemetry so that conversions can be traced
// without importing the SDK across the code base.
package tracing
