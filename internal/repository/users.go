package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/njordr/coastwatch/internal/models"
)

func (s *SQLiteDB) ListRoles(ctx context.Context, userID string) ([]models.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("error scanning role: %w", err)
		}
		roles = append(roles, models.Role(role))
	}
	return roles, rows.Err()
}

func (s *SQLiteDB) AddRole(ctx context.Context, userID string, role models.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, role) DO NOTHING`,
		userID, string(role), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error adding role: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var (
		p        models.Profile
		fullName sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, created_at, updated_at
		FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Email, &fullName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	p.FullName = fullName.String
	return &p, nil
}

// EnsureUser stands in for the account-creation trigger: one profile row
// plus the default citizen role, both idempotent.
func (s *SQLiteDB) EnsureUser(ctx context.Context, p *models.Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Email, p.FullName, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting profile: %w", err)
	}

	return s.AddRole(ctx, p.ID, models.RoleCitizen)
}
