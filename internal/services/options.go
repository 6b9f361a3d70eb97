package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/media"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_attributes"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_events"
	"github.com/light-bringer/procat-admin/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-admin/internal/app/catalog/repo"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/delete_attribute"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/edit_product"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/plan_variants"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/save_attribute"
	"github.com/light-bringer/procat-admin/internal/app/catalog/usecases/shared"
	"github.com/light-bringer/procat-admin/internal/config"
	"github.com/light-bringer/procat-admin/internal/pkg/clock"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// Catalog holds the wired use cases and queries.
type Catalog struct {
	// Commands
	CreateProduct   *create_product.Interactor
	EditProduct     *edit_product.Interactor
	DeleteProduct   *delete_product.Interactor
	SaveAttribute   *save_attribute.Interactor
	DeleteAttribute *delete_attribute.Interactor
	PlanVariants    *plan_variants.Interactor

	// Queries
	GetProduct     *get_product.Query
	ListProducts   *list_products.Query
	ListAttributes *list_attributes.Query
	ListEvents     *list_events.Query

	Outbox contracts.OutboxRepository
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config  *config.Config
	Logger  *zap.Logger
	Records recordstore.Store
	Objects objectstore.Store
	Catalog *Catalog

	closers []func() error
}

// NewServiceOptions opens the configured stores and wires up all
// application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := &ServiceOptions{Config: cfg, Logger: logger}

	// 1. Initialize the record store
	records, err := opts.openRecords(ctx)
	if err != nil {
		opts.Close()
		return nil, err
	}
	opts.Records = records

	// 2. Initialize the object store
	objects, err := opts.openObjects(ctx)
	if err != nil {
		opts.Close()
		return nil, err
	}
	opts.Objects = objects

	// 3. Wire use cases
	opts.Catalog = NewCatalog(records, objects, cfg.Cascade, clock.NewRealClock(), logger)

	logger.Info("catalog wired",
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("objects_backend", cfg.Objects.Backend),
		zap.Bool("transactions", committer.NewCommitter(records, nil).SupportsTransactions()),
	)
	return opts, nil
}

// NewCatalog wires every use case and query on top of the given stores.
func NewCatalog(
	records recordstore.Store,
	objects objectstore.Store,
	cascade config.Cascade,
	clk clock.Clock,
	logger *zap.Logger,
) *Catalog {
	// 1. Create infrastructure components
	comm := committer.NewCommitter(records, logger.Named("committer"))
	uploader := media.NewUploader(objects, logger.Named("media"))

	// 2. Create repositories
	factory := repo.NewFactory(clk)
	repos := factory(records)
	readModel := repo.NewReadModel(records)
	eventsReadModel := repo.NewEventsReadModel(records)

	// 3. Create shared collaborators
	events := shared.NewEventRecorder(repos.Outbox, logger.Named("outbox"))
	variants := shared.NewVariantWriter(factory, uploader)

	// 4. Create command use cases (write operations)
	catalog := &Catalog{
		CreateProduct: create_product.NewInteractor(factory, variants, comm, events, clk, logger.Named("create_product")),
		EditProduct:   edit_product.NewInteractor(factory, variants, uploader, comm, events, clk, logger.Named("edit_product")),
		DeleteProduct: delete_product.NewInteractor(factory, comm, events, clk, logger.Named("delete_product"), cascade.Transactional),
		SaveAttribute: save_attribute.NewInteractor(repos, uploader, events, clk, logger.Named("save_attribute")),
		DeleteAttribute: delete_attribute.NewInteractor(factory, comm, events, clk, logger.Named("delete_attribute"), delete_attribute.Options{
			Transactional:         cascade.Transactional,
			PreserveSurvivingTags: cascade.PreserveSurvivingTags,
		}),
		PlanVariants: plan_variants.NewInteractor(repos.Attributes),
		Outbox:       repos.Outbox,
	}

	// 5. Create query use cases (read operations)
	catalog.GetProduct = get_product.NewQuery(readModel)
	catalog.ListProducts = list_products.NewQuery(readModel)
	catalog.ListAttributes = list_attributes.NewQuery(repos.Attributes)
	catalog.ListEvents = list_events.NewQuery(eventsReadModel)

	return catalog
}

func (s *ServiceOptions) openRecords(ctx context.Context) (recordstore.Store, error) {
	cfg := s.Config.Store
	switch cfg.Backend {
	case config.BackendSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		s.closers = append(s.closers, func() error { client.Close(); return nil })
		return recordstore.NewSpannerStore(client), nil
	case config.BackendPostgres:
		store, err := recordstore.OpenPostgres(ctx, cfg.PostgresDSN, recordstore.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store.Close)
		return store, nil
	case config.BackendMemory:
		s.Logger.Warn("using in-memory record store; data is lost on exit")
		return recordstore.NewMemoryStore(recordstore.WithAutoIncrement(repo.IdentityTables()...)), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func (s *ServiceOptions) openObjects(ctx context.Context) (objectstore.Store, error) {
	cfg := s.Config.Objects
	switch cfg.Backend {
	case config.BackendGCS:
		var clientOpts []option.ClientOption
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		}
		client, err := gcs.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		s.closers = append(s.closers, client.Close)

		var storeOpts []objectstore.GCSOption
		if cfg.PublicBaseURL != "" {
			storeOpts = append(storeOpts, objectstore.WithPublicBaseURL(cfg.PublicBaseURL))
		}
		store, err := objectstore.NewGCSStore(client, cfg.Bucket, storeOpts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return objectstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported objects backend %q", cfg.Backend)
	}
}

// Close closes all resources in reverse order of opening.
func (s *ServiceOptions) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
