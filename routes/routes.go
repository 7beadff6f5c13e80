package routes

// Package routes wires the HTTP surface of the extraction service.
//
// Layout:
// - api.go: versioned API routes (/api/v1/*) and health probes
// - web.go: landing and docs pages
//
// Usage:
// routes.SetupAllRoutes(router, transformController)
