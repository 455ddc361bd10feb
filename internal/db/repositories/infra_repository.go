package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"raildash/internal/constants"
)

// InfraRepository reads the imported railway infrastructure tables
// (operational_point, section_of_line). The shortest-path search is delegated
// to the database, which owns the graph data.
type InfraRepository struct {
	db *sqlx.DB
}

func NewInfraRepository(db *sqlx.DB) *InfraRepository {
	return &InfraRepository{db}
}

// OperationalPointExists reports whether the given RINF OP id is known.
func (r *InfraRepository) OperationalPointExists(ctx context.Context, opID string) (bool, error) {
	var found string
	err := r.db.GetContext(ctx, &found, constants.GetOperationalPoint, opID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup operational point: %w", err)
	}
	return true, nil
}

// FindSectionPath returns the section-of-line ids forming the cheapest path
// between two operational points, in traversal order. Empty means no route.
func (r *InfraRepository) FindSectionPath(ctx context.Context, startOp, endOp string) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, constants.FindSectionPath, startOp, endOp)
	if err != nil {
		return nil, fmt.Errorf("section path search: %w", err)
	}
	return ids, nil
}
