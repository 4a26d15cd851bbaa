package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// SeedAccount is a user inserted at startup when absent.
type SeedAccount struct {
	Username string
	Secret   string
	Role     domain.Role
}

// DefaultSeed returns the bootstrap administrator followed by the ordinary
// demo accounts.
func DefaultSeed(bootstrapAdmin string) []SeedAccount {
	return []SeedAccount{
		{Username: bootstrapAdmin, Secret: "admin", Role: domain.RoleAdmin},
		{Username: "wiener", Secret: "peter", Role: domain.RoleUser},
		{Username: "carlos", Secret: "carlos", Role: domain.RoleUser},
	}
}

// Seed inserts every account that does not exist yet and reports how many
// were created. Existing accounts are left untouched, role included.
func Seed(ctx context.Context, users ports.CredentialStore, accounts []SeedAccount, logger zerolog.Logger) (int, error) {
	created := 0
	for _, acc := range accounts {
		_, err := users.Create(ctx, &domain.User{
			Username: acc.Username,
			Secret:   acc.Secret,
			Role:     acc.Role,
		})
		switch {
		case err == nil:
			created++
			logger.Info().Str("username", acc.Username).Str("role", string(acc.Role)).Msg("seeded user")
		case errors.Is(err, domain.ErrUserExists):
		default:
			return created, fmt.Errorf("seed %s: %w", acc.Username, err)
		}
	}
	return created, nil
}
