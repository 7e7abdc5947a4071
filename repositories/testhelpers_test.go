package repositories

import (
	"context"
	"testing"

	"acmemedical/cache"
	"acmemedical/config"
	"acmemedical/database"
	"acmemedical/models"
	"acmemedical/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB builds an in-memory database with the full schema and the
// seeded roles, plus a cache backed by an in-process redis.
func setupTestDB(t *testing.T) (*gorm.DB, *cache.Cache) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := models.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	c, err := cache.NewCache()
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return db, c
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		UserPrefix:          "phys",
		DefaultUserPassword: "changeme8*",
		AdminUsername:       "admin",
		AdminPassword:       "admin-secret",
		PasswordHash:        utils.DefaultHashConfig(),
	}
}

func mustCreatePhysician(t *testing.T, db *gorm.DB, c *cache.Cache, cfg *config.AppConfig, first, last string) *models.Physician {
	t.Helper()
	physician := &models.Physician{FirstName: first, LastName: last}
	if err := NewPhysicianRepository(db, c, cfg, NewUserRepository(db, c)).Create(context.Background(), physician); err != nil {
		t.Fatalf("create physician: %v", err)
	}
	return physician
}

func mustCreatePatient(t *testing.T, db *gorm.DB, patient *models.Patient) *models.Patient {
	t.Helper()
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}
