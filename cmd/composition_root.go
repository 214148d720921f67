package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "catering/internal/adapters/in/http"
	"catering/internal/adapters/out/kafka"
	"catering/internal/adapters/out/logging"
	"catering/internal/adapters/out/memory"
	"catering/internal/adapters/out/payment"
	"catering/internal/adapters/out/postgres"
	"catering/internal/adapters/out/postgres/sequencerepo"
	"catering/internal/adapters/out/postgres/userrepo"
	"catering/internal/adapters/out/redis"
	"catering/internal/core/application/services"
	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/user"
	domainservices "catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/jobs"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const paymentBurst = 5

type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	store  *memory.Store

	uowFactory commands.UoWFactory
	users      ports.UserDirectory
	notifier   ports.Notifier
	gateway    ports.PaymentGateway
	codes      *domainservices.AuthorizationCodeScheme
	allocator  *services.SequenceAllocator
	ledger     *services.VoucherLedger
	scheduler  *jobs.ExpiryScheduler

	clock   clock.Clock
	metrics *metrics.Collector
	logger  *slog.Logger

	closers []func() error
}

// NewCompositionRoot wires adapters for the configured backends. gormDB is only
// used, and may only be nil, with the memory storage backend.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	clk := clock.NewSystem()
	collector := metrics.NewCollector("catering")

	codes, err := domainservices.NewAuthorizationCodeScheme([]byte(config.AuthorizationSecret))
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:  config,
		gormDB:  gormDB,
		codes:   codes,
		clock:   clk,
		metrics: collector,
		logger:  logger,
		ledger:  services.NewVoucherLedger(domainservices.NewVoucherCodeGenerator(nil), clk, collector, logger),
		gateway: payment.NewRateLimitedGateway(
			payment.NewSimulatedGateway(logger),
			config.PaymentRatePerSecond,
			paymentBurst,
			config.PaymentTimeout,
		),
	}

	var counter ports.SequenceCounter
	switch config.StorageBackend {
	case StorageBackendMemory:
		c.store = memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(c.store)
		c.users = c.store.Users()
		counter = c.store
	default:
		if gormDB == nil {
			return nil, errors.New("postgres storage needs a database connection")
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		c.users = userrepo.NewGormUserDirectory(gormDB)
		counter = sequencerepo.NewGormSequenceCounter(gormDB)
	}

	if config.SequenceBackend == SequenceBackendRedis {
		client := goredis.NewClient(&goredis.Options{Addr: config.RedisAddr})
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", config.RedisAddr, err)
		}
		c.closers = append(c.closers, client.Close)
		counter = redis.NewSequenceCounter(client)
	}
	c.allocator = services.NewSequenceAllocator(counter)

	if brokers := kafka.ParseBrokers(config.KafkaBrokers); len(brokers) > 0 {
		notifier := kafka.NewNotifier(kafka.NewWriter(brokers, config.KafkaNotificationTopic), clk)
		c.closers = append(c.closers, notifier.Close)
		c.notifier = notifier
	} else {
		c.notifier = logging.NewNotifier(logger)
	}

	c.scheduler = jobs.NewExpiryScheduler(
		c.CreateExpireOrderCommandHandler(),
		config.OrderExpiry,
		clk,
		collector,
		logger,
	)

	return c, nil
}

// Close releases broker and cache connections.
func (c *CompositionRoot) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) Metrics() *metrics.Collector {
	return c.metrics
}

// SeedAdmin registers the configured admin user, if any.
func (c *CompositionRoot) SeedAdmin(ctx context.Context) error {
	if c.config.AdminUserID == "" {
		return nil
	}

	id, err := kernel.UUIDFromString(c.config.AdminUserID)
	if err != nil {
		return err
	}
	admin, err := user.NewUser(id, "admin", "", user.RoleAdmin)
	if err != nil {
		return err
	}

	if c.store != nil {
		return c.store.AddUser(admin)
	}
	return userrepo.NewGormUserDirectory(c.gormDB).Save(ctx, admin)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.uowFactory, c.users, c.allocator, c.ledger, c.codes, c.notifier, c.scheduler, c.clock, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.uowFactory, c.clock, c.logger)
}

func (c *CompositionRoot) CreateExecuteOrderCommandHandler() commands.ExecuteOrderCommandHandler {
	return commands.NewExecuteOrderCommandHandler(
		c.uowFactory, c.users, c.ledger, c.codes, c.gateway, c.notifier, c.scheduler, c.clock, c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.uowFactory, c.scheduler, c.logger)
}

func (c *CompositionRoot) CreateExpireOrderCommandHandler() commands.ExpireOrderCommandHandler {
	return commands.NewExpireOrderCommandHandler(c.uowFactory, c.users, c.ledger, c.notifier, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGenerateVouchersCommandHandler() commands.GenerateVouchersCommandHandler {
	return commands.NewGenerateVouchersCommandHandler(c.uowFactory, c.ledger)
}

func (c *CompositionRoot) CreateSweepVouchersCommandHandler() commands.SweepVouchersCommandHandler {
	return commands.NewSweepVouchersCommandHandler(c.uowFactory, c.ledger, c.clock)
}

func (c *CompositionRoot) CreateNextSequenceIDCommandHandler() commands.NextSequenceIDCommandHandler {
	return commands.NewNextSequenceIDCommandHandler(c.allocator)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

// CreatePendingOrdersReader reads pending orders with SQL on postgres and from
// the store otherwise.
func (c *CompositionRoot) CreatePendingOrdersReader() jobs.PendingOrdersReader {
	if c.store != nil {
		return repositoryPendingOrders{orders: c.store.OrderRepository()}
	}
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.scheduler,
		jobs.NewVoucherSweepJob(c.CreateSweepVouchersCommandHandler(), c.config.VoucherSweepSchedule, c.logger),
		c.CreatePendingOrdersReader(),
	)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderCommandHandler(),
		c.CreateExecuteOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGenerateVouchersCommandHandler(),
		c.CreateNextSequenceIDCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.logger,
	)
}

type repositoryPendingOrders struct {
	orders ports.OrderRepository
}

func (r repositoryPendingOrders) Handle(
	ctx context.Context,
	query queries.GetPendingOrdersQuery,
) ([]queries.GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pending, err := r.orders.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]queries.GetPendingOrdersQueryResponse, len(pending))
	for i, o := range pending {
		response[i] = queries.GetPendingOrdersQueryResponse{
			ID:         o.ID(),
			ReadableID: o.ReadableID(),
			CreatedAt:  o.CreatedAt(),
		}
	}
	return response, nil
}
