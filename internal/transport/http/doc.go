// Package http implements the JSON API handlers. Handlers stay thin: they
// decode and validate the request, call a service and render the result.
// Every failure goes through the shared ErrorHandler so clients always get
// RFC 7807 problem details.
//
// Handlers that own a path prefix expose Routes() for mounting:
//
//	r.Mount("/api/users", NewUsersHandler(svc, v, eh, logger).Routes())
package http
