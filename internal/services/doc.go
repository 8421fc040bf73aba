// Package services is the business layer of fauxlizer. It composes the
// validator, summarizer and extractor around one shared registry of
// validation outcomes and adds tracing and metrics, so every surface (CLI,
// HTTP, MCP) gets identical behavior.
//
//	svc := services.NewDatasetService(cfg.Dataset, providers.Tracer, metrics, logger)
//	outcome := svc.Validate(ctx, "data/file_1.faux")
//	if outcome.Valid {
//	    summary, err := svc.Summarize(ctx, "data/file_1.faux")
//	    ...
//	}
package services
