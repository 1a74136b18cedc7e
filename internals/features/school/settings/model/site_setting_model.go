// file: internals/features/school/settings/model/site_setting_model.go
package model

import "time"

// SiteSettingModel is a singleton row: lazily created on first access,
// never deleted, at most one row exists (see settings.Service).
type SiteSettingModel struct {
	SettingID uint `gorm:"primaryKey;column:setting_id" json:"setting_id"`

	SettingSchoolName   string `gorm:"type:varchar(120);not null;default:'';column:setting_school_name"   json:"setting_school_name"`
	SettingContactEmail string `gorm:"type:varchar(120);not null;default:'';column:setting_contact_email" json:"setting_contact_email"`
	SettingSMTPHost     string `gorm:"type:varchar(120);not null;default:'';column:setting_smtp_host"     json:"setting_smtp_host"`
	SettingSMTPPort     int    `gorm:"not null;default:587;column:setting_smtp_port"                      json:"setting_smtp_port"`

	SettingCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:setting_created_at" json:"setting_created_at"`
	SettingUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:setting_updated_at" json:"setting_updated_at"`
}

func (SiteSettingModel) TableName() string { return "site_settings" }
