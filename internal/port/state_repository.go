package port

import "context"

// Persisted state keys. Values are JSON-serialized by the service.
const (
	KeyInventory        = "inventory"
	KeyInitialInventory = "initialInventory"
	KeySales            = "sales"
	KeyEventInfo        = "eventInfo"
)

// StateRepository is the key-value persistence capability backing an event.
// It stands in for the browser-local storage of the reference tracker, so
// the core stays storage-agnostic and testable without a browser.
type StateRepository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value, replacing any prior one.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key; absent keys are not an error.
	Delete(ctx context.Context, key string) error
}
