package profile

import "context"

type Repository interface {
	// ListNotifiable returns active profiles with a registered device token.
	ListNotifiable(ctx context.Context) ([]Profile, error)
}
