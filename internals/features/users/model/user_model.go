// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	UserEmail        string `gorm:"type:varchar(120);not null;uniqueIndex:ux_users_email,where:user_deleted_at IS NULL;column:user_email" json:"user_email"`
	UserPasswordHash string `gorm:"type:varchar(100);not null;column:user_password_hash" json:"-"`
	UserRole         string `gorm:"type:varchar(20);not null;default:'teacher';column:user_role" json:"user_role"`

	UserIsActive  bool           `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`
	UserCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.UserPasswordHash = string(hash)
	return nil
}

func (u *UserModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.UserPasswordHash), []byte(plain)) == nil
}
