// Package app wires kartlap together: configuration, logging, telemetry,
// heat storage, the page fetcher, the heat service, the websocket hub and
// the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, KARTLAP_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Open the heat repository (file or postgres) and the fetcher
//	4. Build the heat and health services
//	5. Set up middleware, /api routes, /ws and /metrics
//
// The CLI uses Container on its own; the server wraps it in an
// Application.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM: in-flight requests finish, websocket
// clients are disconnected, the database pool is closed and telemetry is
// flushed. Errors are returned to main, which controls the exit code.
package app
