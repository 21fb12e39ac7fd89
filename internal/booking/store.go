package booking

import "context"

// Store persists confirmed bookings.
type Store interface {
	// Load returns every booking. A store that does not exist yet is empty.
	Load(ctx context.Context) (Bookings, error)
	// Save replaces the whole store with b.
	Save(ctx context.Context, b Bookings) error
	// Append adds rec to the end of the user's bookings.
	Append(ctx context.Context, userID string, rec Record) error
	// Remove deletes the user's bookings with ref and returns how many were deleted.
	Remove(ctx context.Context, userID, ref string) (int, error)
	// List returns the user's bookings in insertion order.
	List(ctx context.Context, userID string) ([]Record, error)
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*PGStore)(nil)
)
