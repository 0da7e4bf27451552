// Package integrity provides system health checks.
//
// # Checks Provided
//
//   - Schema: every gorm model's table exists and has the columns the model declares.
//   - Structure: the backup bucket exists and the backup prefix holds at least one object.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks, 503 when any fails.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/structure : Runs the structure check (supports ?fix=true).
package integrity
