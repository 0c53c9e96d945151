// ABOUTME: Dependencies container provides dependency injection for the analysis core
// ABOUTME: Defines the contract for collaborators required by the core business logic

package interfaces

// Dependencies holds the external collaborators the analysis core
// depends on. HTTPClient is required for any operation that fetches;
// Cache and Logger are optional and nil-safe.
type Dependencies struct {
	// Cache provides optional analysis-record caching
	Cache Cache

	// HTTPClient provides the fetch capability
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}
