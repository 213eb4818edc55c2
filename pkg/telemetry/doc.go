// Package telemetry provides observability for steelshape: structured
// logging (zerolog), tracing (OpenTelemetry), Prometheus metrics and an
// in-process profile event publisher.
//
// # Usage
//
// Initialize telemetry at startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Library code that is handed no telemetry uses Nop, which records
// nothing.
//
// # Structured Logging
//
//	logger := tel.Logger.NewComponentLogger("coordinator")
//	logger.WithProfileID(id).WithFamily("IShape").Info("Profile committed")
//
// # Tracing
//
// Every commit runs inside a "profile.commit" span carrying the profile
// id, family and operation. Supported exporters are otlp (gRPC), stdout
// and none.
//
// # Metrics
//
//	tel.Metrics.RecordValidation("IShape", "valid")
//	tel.Metrics.RecordCommit("insert", "committed", duration)
//	tel.Metrics.RecordReferentialRejection("TARGET_MISSING")
//
// Metrics are exposed via HTTP at /metrics when the server is started.
//
// # Events
//
//	tel.Events.Subscribe(func(e telemetry.Event) {
//	    fmt.Println(e.Type, e.ProfileID)
//	}, telemetry.FilterByType(telemetry.EventTypeProfileRejected))
package telemetry
