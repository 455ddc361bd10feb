package services

import (
	"context"
	"fmt"

	"raildash/internal/logging"
)

// InfraStore is the contract to the imported infrastructure tables.
type InfraStore interface {
	OperationalPointExists(ctx context.Context, opID string) (bool, error)
	FindSectionPath(ctx context.Context, startOp, endOp string) ([]int64, error)
}

// InfraRoutingService finds paths over the imported section-of-line network.
// The graph search itself is delegated to the database.
type InfraRoutingService struct {
	store InfraStore
}

func NewInfraRoutingService(store InfraStore) *InfraRoutingService {
	return &InfraRoutingService{store: store}
}

// FindSectionRoute validates both endpoints and returns the ordered
// section-of-line ids of the cheapest path. An empty result means no route
// connects the two points.
func (s *InfraRoutingService) FindSectionRoute(ctx context.Context, startOp, endOp string) ([]int64, error) {
	if startOp == "" || endOp == "" {
		return nil, &ValidationError{Message: "start_op and end_op are required"}
	}

	for _, opID := range []string{startOp, endOp} {
		exists, err := s.store.OperationalPointExists(ctx, opID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &ValidationError{Message: fmt.Sprintf("operational point %s does not exist", opID)}
		}
	}

	ids, err := s.store.FindSectionPath(ctx, startOp, endOp)
	if err != nil {
		return nil, err
	}

	logging.Debug("section path search finished",
		"start_op", startOp,
		"end_op", endOp,
		"segments", len(ids),
	)
	return ids, nil
}
