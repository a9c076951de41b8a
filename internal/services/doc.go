// Package services holds the business logic behind the HTTP handlers and
// the CLI. Each service wraps one domain package (insights, operations,
// files, analytics, auth) and speaks in sentinel errors that the transport
// layer maps to problem details.
//
// Services take their collaborators through constructors and a
// *slog.Logger tagged with the service name:
//
//	svc := services.NewInsightService(paths, logger)
//	entries := svc.Catalog(ctx)
package services
