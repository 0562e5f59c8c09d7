package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// Connect opens the MySQL connection and migrates the schema. The returned
// handle is the single store client for the process; callers inject it into
// the repository factory and close it on shutdown via Close.
func Connect() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	var db *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			// Duplicate-key violations surface as gorm.ErrDuplicatedKey so the
			// participant email constraint can be reported per field.
			TranslateError: true,
		})
		if err == nil {
			if err := Migrate(db); err != nil {
				return nil, err
			}
			return db, nil
		}

		log.Warnf("[Database] connect failed (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, err
}

// Migrate creates or updates all tables. Foreign key actions (CASCADE /
// SET NULL) come from the model constraint tags; the SQL migrations under
// migrations/ mirror the same schema for golang-migrate deployments.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationUser{},
		&models.EventCategory{},
		&models.Event{},
		&models.Participant{},
		&models.EventPhoto{},
		&models.DetectedFace{},
		&models.PhotoParticipantMatch{},
		&models.FaceMatchingTask{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Payment{},
		&models.Invoice{},
		&models.ConsentLog{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
