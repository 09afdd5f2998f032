// Package roles resolves a user's highest role and answers cumulative
// permission checks over the citizen < authority < admin hierarchy.
package roles

import (
	"context"
	"log/slog"

	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/repository"
)

type Resolver struct {
	repo repository.RoleRepository
}

func NewResolver(repo repository.RoleRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the user's highest-ranked role. Lookup failures and
// users with no role rows both resolve to citizen: fail open to least
// privilege, never deny service.
func (r *Resolver) Resolve(ctx context.Context, userID string) models.Role {
	held, err := r.repo.ListRoles(ctx, userID)
	if err != nil {
		slog.Warn("role lookup failed, defaulting to citizen", "user_id", userID, "error", err)
		return models.RoleCitizen
	}

	highest := models.RoleCitizen
	for _, role := range held {
		if role.Rank() > highest.Rank() {
			highest = role
		}
	}
	return highest
}

// HasRole reports whether the user's resolved role satisfies the required
// one. Roles are hierarchical, not set-membership: an admin passes every
// check a citizen would.
func (r *Resolver) HasRole(ctx context.Context, userID string, required models.Role) bool {
	return r.Resolve(ctx, userID).Rank() >= required.Rank()
}
