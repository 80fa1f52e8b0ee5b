package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

// PlanRepository reads tiers from the subscribers table, kept up to date by billing.
type PlanRepository struct {
	db *sql.DB
}

var _ port.PlanRepository = (*PlanRepository)(nil)

func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// PlanFor returns the free tier for identities without a subscription row.
func (r *PlanRepository) PlanFor(ctx context.Context, identity string) (model.PlanTier, error) {
	const query = `SELECT plan FROM subscribers WHERE identity = ?`

	var raw string
	err := r.db.QueryRowContext(ctx, query, identity).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PlanFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup plan of %q: %w", identity, err)
	}
	tier, ok := model.ParsePlanTier(raw)
	if !ok {
		return "", fmt.Errorf("subscriber %q has unknown plan %q", identity, raw)
	}
	return tier, nil
}
