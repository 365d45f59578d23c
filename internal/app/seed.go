package app

import (
	"context"
	"fmt"
	"time"

	"orgdesk/internal/domain"
)

// SeedAdmin bootstraps the first administrator so a fresh database is not
// locked out of every privileged operation. Idempotent — skips when any
// administrator already exists.
func (a *App) SeedAdmin(ctx context.Context, id, name, email string) error {
	members, err := a.MemberRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.Role == domain.RoleAdministrator {
			return nil // already seeded
		}
	}

	admin := &domain.MemberRecord{
		ID:            id,
		Name:          name,
		Email:         email,
		Role:          domain.RoleAdministrator,
		Status:        domain.MemberStatusActive,
		SignInMethod:  "seed",
		LastUpdated:   time.Now().UTC(),
		LastUpdatedBy: "seed",
	}
	if err := a.MemberRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}
	return nil
}
