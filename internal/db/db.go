package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Migrate creates the schema plus the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Service{},
		&models.Employee{},
		&models.EmployeeSchedule{},
		&models.Client{},
		&models.Promotion{},
		&models.Appointment{},
		&models.TimeSlot{},
		&models.Payment{},
		&models.Product{},
		&models.StockMovement{},
		&models.Notification{},
		&models.Reminder{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// NULL employee_id rows are distinct for a plain unique index
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_time_slot_unassigned
		ON time_slots (service_id, date, start_time)
		WHERE employee_id IS NULL
	`).Error; err != nil {
		return err
	}

	db.Exec(`
		UPDATE salons
		SET timezone = 'America/Sao_Paulo'
		WHERE timezone IS NULL OR timezone = ''
	`)

	ensureOverlapGuard(db)

	return nil
}

// ensureOverlapGuard adds an exclusion constraint rejecting overlapping live
// appointments of the same employee. It needs btree_gist, so failures only
// log: the booking lock and the FOR UPDATE check still apply.
func ensureOverlapGuard(db *gorm.DB) {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Printf("overlap guard skipped (btree_gist): %v", err)
		return
	}

	err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'appointments_employee_no_overlap'
			) THEN
				ALTER TABLE appointments
				ADD CONSTRAINT appointments_employee_no_overlap
				EXCLUDE USING gist (
					employee_id WITH =,
					tstzrange(scheduled_at, ends_at) WITH &&
				) WHERE (employee_id IS NOT NULL AND status <> 'cancelled');
			END IF;
		END $$;
	`).Error
	if err != nil {
		log.Printf("overlap guard skipped: %v", err)
	}
}
