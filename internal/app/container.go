package app

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	paymentDomain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/handlers"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/lock"
	infraPayment "github.com/BruksfildServices01/nail-scheduler/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/nail-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/nail-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/dashboard"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/media"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/notification"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/product"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/promotion"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/worker"
)

// Container holds the singletons shared by the HTTP server and the worker.
type Container struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Redis *redis.Client

	Audit        *audit.Dispatcher
	Appointments handlers.AppointmentUseCases
	Expire       *appointment.ExpirePendingDeposits
	Slots        *timeslot.Service
	Payments     *payment.Service
	Outbox       *notification.Worker
	Dashboard    *dashboard.Service
	Stock        *product.Stock
	Promotions   *promotion.Validate
	Upload       *media.UploadImage
}

// New wires every use case. Redis, Mercado Pago and S3 are optional and
// degrade to in-process lock, no cache, no online payment and no uploads.
func New(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{DB: db, Cfg: cfg}

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	c.Audit = audit.NewDispatcher(audit.New(db))

	locker := lock.NewLocalLocker()
	var availability appointment.AvailabilityCache = cache.Nop{}

	if cfg.RedisEnabled() {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("redis unavailable, using local lock and no cache: %v", err)
		} else {
			c.Redis = client
			locker = lock.NewRedisLocker(client, cfg.LockTTL)
			availability = cache.NewAvailabilityCache(client, cfg.AvailabilityTTL)
		}
	}

	var gateway paymentDomain.Gateway
	if cfg.PaymentsEnabled() {
		mp, err := infraPayment.NewMercadoPago(cfg.MercadoPagoToken, cfg.MercadoPagoNotifyURL, cfg.MercadoPagoSuccessURL)
		if err != nil {
			log.Printf("mercado pago disabled: %v", err)
		} else {
			gateway = mp
		}
	}

	var store media.Store
	if cfg.StorageEnabled() {
		store = storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	deps := appointment.Deps{
		Repo:     infraRepo.NewAppointmentGormRepository(db),
		Locker:   locker,
		Cache:    availability,
		Notifier: notification.NewNotifier(notificationRepo, cfg.Rules),
		Audit:    c.Audit,
		Rules:    cfg.Rules,
	}

	c.Appointments = handlers.NewAppointmentUseCases(deps)
	c.Expire = appointment.NewExpirePendingDeposits(deps)
	c.Slots = timeslot.NewService(infraRepo.NewTimeSlotGormRepository(db), availability, c.Audit, cfg.Rules)
	c.Payments = payment.NewService(infraRepo.NewPaymentGormRepository(db), gateway, c.Appointments.Confirm, c.Audit)
	c.Outbox = notification.NewWorker(notificationRepo, nil, cfg.Rules)
	c.Dashboard = dashboard.NewService(infraRepo.NewDashboardRepository(db))
	c.Stock = product.NewStock(infraRepo.NewProductGormRepository(db), c.Audit)
	c.Promotions = promotion.NewValidate(deps.Repo)
	c.Upload = media.NewUploadImage(store, infraRepo.NewMediaGormRepository(db), c.Audit)

	return c
}

// Tasks are the periodic jobs run by cmd/worker (or inline by cmd/api).
func (c *Container) Tasks() []worker.Task {
	return []worker.Task{
		{Name: "expire_deposits", Run: c.Expire.Execute},
		{Name: "due_reminders", Run: c.Outbox.ProcessDueReminders},
		{Name: "dispatch_notifications", Run: c.Outbox.DispatchPending},
	}
}

// RedisPinger adapts the optional redis client to handlers.Pinger.
func (c *Container) RedisPinger() handlers.Pinger {
	if c.Redis == nil {
		return nil
	}
	return redisPinger{c.Redis}
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close flushes pending audit events and closes redis.
func (c *Container) Close() {
	c.Audit.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
