// Package services implements the business logic layer of kartlap. It sits
// between the outer surfaces (HTTP handlers, CLI commands) and the heat
// collaborators: the page fetcher, the extraction parser, the repository and
// the exporters.
//
// # Heat lifecycle
//
// Import fetches the raw rows of a session page, reconstructs the heat with
// dataprocessing.HeatParser and saves it. ImportBatch runs several imports
// with a bounded number of workers; each session is independent and a
// failure never cancels its siblings.
//
// Every import is wrapped in a span, recorded in infrastructure.HeatMetrics
// and announced to websocket clients through an EventBroadcaster.
//
// # Dependencies
//
//	svc := services.NewHeatService(services.HeatServiceDeps{
//	    Fetcher:    fetcher,
//	    Repository: store,
//	    Events:     hub,
//	    Metrics:    heatMetrics,
//	    Logger:     logger,
//	})
package services
