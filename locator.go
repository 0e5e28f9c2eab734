package doclocate

import "context"

// Result holds what a Locator discovered.
type Result struct {
	// Target is the normalized root of the locate operation.
	Target string

	// Extensions is the filter the locator ran with.
	Extensions ExtensionSet

	// Visited lists the pages or portal nodes processed, in visit order.
	Visited []string

	// Locations lists discovered documents in discovery order.
	Locations []*Location
}

// Locator discovers document locations from a single target.
// Implementations are not safe for concurrent use; each call to Locate
// starts from fresh visited and location state.
type Locator interface {
	// Locate runs discovery to completion. Failures on individual pages or
	// nodes are logged and skipped. An error is returned when the target
	// itself cannot be read or when the context is canceled.
	Locate(ctx context.Context) (*Result, error)
}
