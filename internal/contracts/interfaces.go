package contracts

import (
	"context"
)

// ProductCatalog is the read-only lookup of investment products.
type ProductCatalog interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	FindByTypeAndMinTerm(ctx context.Context, productType string, termMonths int) ([]Product, error)
	FindByRiskLevels(ctx context.Context, levels []RiskLevel) ([]Product, error)
}

// ClientRegistry manages minimal client records.
type ClientRegistry interface {
	EnsureExists(ctx context.Context, clientID int64) (*Client, error)
	GetByID(ctx context.Context, clientID int64) (*Client, error)
	List(ctx context.Context) ([]Client, error)
}

// ProfileComputer recomputes and persists a client's risk profile from
// its investment history.
type ProfileComputer interface {
	ComputeProfile(ctx context.Context, clientID int64) (*RiskProfile, error)
}
