package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names seeded at startup.
const (
	AdminRole = "ADMIN"
	UserRole  = "USER"
)

// SecurityRole represents a grantable role
type SecurityRole struct {
	ID      int64          `gorm:"primaryKey;column:id" json:"id"`
	Name    string         `gorm:"size:45;not null;unique;index;column:name" json:"name"`
	Users   []SecurityUser `gorm:"many2many:user_has_role;joinForeignKey:role_id;joinReferences:user_id" json:"-"`
	Created time.Time      `gorm:"autoCreateTime;column:created" json:"created"`
}

func (SecurityRole) TableName() string {
	return "security_role"
}

// SecurityUser represents an authenticable account. Physician accounts are
// provisioned automatically when a physician is created; the admin account
// is seeded with no linked physician.
type SecurityUser struct {
	ID          int64          `gorm:"primaryKey;column:id" json:"id"`
	Username    string         `gorm:"size:64;not null;unique;index;column:username" json:"username"`
	PwHash      string         `gorm:"size:256;not null;column:pw_hash" json:"-"`
	PhysicianID *uint          `gorm:"column:physician_id;uniqueIndex" json:"physicianId,omitempty"`
	Physician   *Physician     `gorm:"foreignKey:PhysicianID;references:ID" json:"physician,omitempty"`
	Roles       []SecurityRole `gorm:"many2many:user_has_role;joinForeignKey:user_id;joinReferences:role_id" json:"roles"`
	Created     time.Time      `gorm:"autoCreateTime;column:created" json:"created"`
}

func (SecurityUser) TableName() string {
	return "security_user"
}

// RoleNames returns the names of every role granted to the user.
func (u *SecurityUser) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// HasRole reports whether the user holds the named role.
func (u *SecurityUser) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// SeedRoles inserts the ADMIN and USER roles if they are not present yet
func SeedRoles(db *gorm.DB) error {
	initialRoles := []SecurityRole{
		{Name: AdminRole},
		{Name: UserRole},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, SecurityRole{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedAdminUser inserts the default admin account with the given password
// hash and grants it the ADMIN role. An existing account is left untouched.
func SeedAdminUser(db *gorm.DB, username, pwHash string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&SecurityUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var adminRole SecurityRole
		if err := tx.Where("name = ?", AdminRole).First(&adminRole).Error; err != nil {
			return err
		}

		admin := SecurityUser{
			Username: username,
			PwHash:   pwHash,
			Roles:    []SecurityRole{adminRole},
		}
		return tx.Create(&admin).Error
	})
}
