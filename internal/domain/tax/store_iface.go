package tax

import "context"

type StoreAPI interface {
	ListConfigurations(ctx context.Context, organizationID int64, limit, offset int) ([]Configuration, int, error)
	GetConfiguration(ctx context.Context, id int64) (*Configuration, error)
	ActiveConfiguration(ctx context.Context, organizationID int64) (*Configuration, error)
	CreateConfiguration(ctx context.Context, cfg *Configuration) (int64, error)
	UpdateConfiguration(ctx context.Context, cfg *Configuration) error
	DeleteConfiguration(ctx context.Context, id int64) error

	ListSlabs(ctx context.Context, configurationID int64) ([]Slab, error)
	GetSlab(ctx context.Context, id int64) (*Slab, error)
	CreateSlab(ctx context.Context, slab *Slab) (int64, error)
	UpdateSlab(ctx context.Context, slab *Slab) error
	DeleteSlab(ctx context.Context, id int64) error
}
