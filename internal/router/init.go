package router

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/container"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/service"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/eventbus"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/idgen"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/lock"
	pginfra "github.com/oksasatya/go-ddd-worktime/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-worktime/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-ddd-worktime/internal/interface/http"
	"github.com/oksasatya/go-ddd-worktime/internal/interface/listener"
	"github.com/oksasatya/go-ddd-worktime/internal/router/modules"
	"github.com/oksasatya/go-ddd-worktime/pkg/validation"
)

// Deps is the wired application graph built from the container singletons.
type Deps struct {
	Users      *application.UserService
	WorkEntry  *application.WorkEntryService
	Logs       *application.WorkEntryLogService
	Timesheets *application.TimesheetService
	Listener   *listener.WorkEntryUpdatedListener
	Bus        *eventbus.Bus

	UserHandler      *handlers.UserHandler
	WorkEntryHandler *handlers.WorkEntryHandler
}

// BuildDeps wires repositories, services, the event bus and handlers.
// Events are handled in-process unless the RabbitMQ transport is enabled,
// in which case they are relayed to the audit worker.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	loc := cfg.Location()

	users := pginfra.NewUserRepository(pool)
	entries := pginfra.NewWorkEntryRepository(pool)
	logs := pginfra.NewWorkEntryLogRepository(pool)
	tx := pginfra.NewTransactor(pool)
	ids := idgen.UUIDGenerator{}

	var locker repository.UserLocker = lock.NewLocalLocker()
	if rdb := container.GetRedis(); rdb != nil {
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, cfg.LockWait, logger)
	}

	validator := validation.New(validation.WithUserExists(users.Exists), validation.WithLocation(loc))
	domainSvc := service.NewWorkEntryDomainService(entries, service.OwnerPolicy{})

	var indexer application.LogIndexer
	if es := container.GetES(); es != nil {
		indexer = search.NewLogIndexer(es, cfg.ESLogsIndex, logger)
	}
	var uploader application.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = storage.NewGCSUploader(gcs, cfg.GCSBucket)
	}

	logSvc := application.NewWorkEntryLogService(users, entries, logs, domainSvc, indexer, logger)
	logListener := listener.NewWorkEntryUpdatedListener(logSvc, logger)

	bus := eventbus.New(logger)
	if pub := container.GetRabbitPub(); pub != nil && cfg.UseRabbitMQ() {
		bus.Subscribe(event.WorkEntryUpdatedName, eventbus.NewRabbitRelay(pub))
		logger.WithField("queue", pub.Queue).Info("work entry events relayed to rabbitmq")
	} else {
		bus.Subscribe(event.WorkEntryUpdatedName, logListener)
	}

	userSvc := application.NewUserService(users, entries, ids, validator, logger, loc)
	workSvc := application.NewWorkEntryService(users, entries, domainSvc, ids, tx, locker, bus, validator, logger, loc)
	timesheetSvc := application.NewTimesheetService(users, entries, uploader, logger, loc)

	return Deps{
		Users:            userSvc,
		WorkEntry:        workSvc,
		Logs:             logSvc,
		Timesheets:       timesheetSvc,
		Listener:         logListener,
		Bus:              bus,
		UserHandler:      handlers.NewUserHandler(userSvc, timesheetSvc, logger, loc),
		WorkEntryHandler: handlers.NewWorkEntryHandler(workSvc, logSvc, logger, loc),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := BuildDeps()
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	writeLimit := modules.WriteLimit{Redis: rdb, Max: cfg.WriteRateLimit, Window: cfg.WriteRateWindow}
	r.Add(modules.NewUserModule(deps.UserHandler, writeLimit))
	r.Add(modules.NewWorkEntryModule(deps.WorkEntryHandler, writeLimit))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
	container.GetLogger().WithFields(logrus.Fields{"modules": len(r.modules)}).Debug("router modules registered")
}
