package config

import "acmemedical/utils"

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string

	// Account provisioning for new physicians.
	UserPrefix          string
	DefaultUserPassword string

	// Seeded admin account.
	AdminUsername string
	AdminPassword string

	// Password key-derivation parameters, passed to every hashing call.
	PasswordHash utils.HashConfig
}
