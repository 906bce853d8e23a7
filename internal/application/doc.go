// Package application provides application initialization and dependency wiring.
// It creates the layout storage, the simplex solver, the optimization service,
// handlers, routers and the HTTP server, keeping the main package focused on
// CLI parsing and orchestration.
package application
