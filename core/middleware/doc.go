// Package middleware groups the HTTP middleware of the service.
//
//   - auth: API key validation (X-API-Key or bearer token)
//   - rayid: request id generation, exposed in the X-Ray-ID header and used by
//     logger.WithRayID
package middleware
