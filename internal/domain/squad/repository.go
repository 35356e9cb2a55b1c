package squad

import "context"

// Repository exposes live squad reads. Writes belong to the squad service.
type Repository interface {
	GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (LiveSquad, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]LiveSquad, error)
}
