// Package observability wires OpenTelemetry tracing and metrics.
//
// The telemetry Component installs OTLP HTTP exporters when enabled; otherwise
// the global no-op providers stay in place. Instruments created before Start
// pick up the real providers once they are installed.
//
//	metrics, err := observability.NewMetrics(observability.Meter("companion"))
//	metrics.RecordVerification(ctx, observability.OutcomeExpired)
//
//	oc := observability.NewOperationContext("account", "signup", metrics)
//	ctx, span := oc.Start(ctx)
//	defer oc.End(ctx, span, "ok", nil)
package observability
