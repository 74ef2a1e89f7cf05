package therapist

import "context"

type Repository interface {
	Create(ctx context.Context, t *Therapist) error
	GetByID(ctx context.Context, id uint) (*Therapist, error)
	ListAll(ctx context.Context) ([]Therapist, error)

	// ListBySpecialisms returns every therapist holding at least one of the
	// named specialisms. Unknown names simply match no one; they are not an
	// error.
	ListBySpecialisms(ctx context.Context, names []string) ([]Therapist, error)
}
