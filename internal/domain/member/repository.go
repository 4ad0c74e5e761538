package member

import "context"

// Gateway is the sole boundary to persistent member state. Each call is one
// best-effort round trip; there are no retries.
type Gateway interface {
	// List returns every record, newest first.
	List(ctx context.Context) ([]Member, error)
	Get(ctx context.Context, id string) (*Member, error)
	Insert(ctx context.Context, fields Fields) (*Member, error)
	Update(ctx context.Context, id string, fields Fields) (*Member, error)
	Delete(ctx context.Context, id string) error
}
