// Package http implements the HTTP handlers of the kartlap API server.
// Handlers stay thin: they decode and validate requests, call the heat
// and health services, and render JSON. Every failure goes through the
// shared RFC 7807 error handler.
//
// Routes mounted under /api:
//
//	GET    /health
//	GET    /health/live
//	GET    /version
//	GET    /tracks
//	GET    /heats                                   ?track=
//	POST   /heats/import                            {"track","session_id"}
//	POST   /heats/import/batch                      {"track","session_ids","workers"}
//	GET    /heats/{track}/{sessionID}
//	GET    /heats/{track}/{sessionID}/results
//	GET    /heats/{track}/{sessionID}/export/{format}
//	DELETE /heats/{track}/{sessionID}
package http
