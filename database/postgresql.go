package database

import (
	"context"
	"log"
	"os"
	"time"

	"acmemedical/config"
	"acmemedical/models"
	"acmemedical/utils"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB opens the database connection, migrates the medical entity graph
// and seeds the security data.
func InitDB(ctx context.Context, cfg *config.AppConfig) (*gorm.DB, error) {
	var err error

	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	DB, err = gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(DB); err != nil {
		return nil, err
	}

	if err := testDatabaseConnection(ctx, DB); err != nil {
		return nil, err
	}

	if err := RunMigrations(DB); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	if err := SeedInitialData(DB, cfg); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// RunMigrations migrates the full entity graph. Prescription carries a
// composite primary key and medical_school a school_type discriminator;
// both come from the model tags.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SecurityRole{},
		&models.Physician{},
		&models.SecurityUser{},
		&models.Patient{},
		&models.Medicine{},
		&models.MedicalSchool{},
		&models.MedicalTraining{},
		&models.MedicalCertificate{},
		&models.Prescription{},
	)
}

// SeedInitialData inserts the ADMIN/USER roles and the default admin account.
func SeedInitialData(db *gorm.DB, cfg *config.AppConfig) error {
	if err := models.SeedRoles(db); err != nil {
		return errors.Wrap(err, "failed to seed roles")
	}

	pwHash, err := utils.HashPassword(cfg.PasswordHash, cfg.AdminPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}
	if err := models.SeedAdminUser(db, cfg.AdminUsername, pwHash); err != nil {
		return errors.Wrap(err, "failed to seed admin user")
	}
	return nil
}
