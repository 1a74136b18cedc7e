// file: internals/features/school/settings/service/settings_service.go
package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	model "escola_backend/internals/features/school/settings/model"
)

// Service guards the site-settings singleton: lazily created on first
// access, never deleted, at most one row exists. It is injected into
// callers instead of living as ambient global state.
type Service struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// GetOrInit returns the settings row, creating the single default row on
// first access. The mutex keeps concurrent first accesses from racing to
// two rows; the fixed primary key makes the invariant hold even across
// processes.
func (s *Service) GetOrInit(ctx context.Context) (*model.SiteSettingModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row model.SiteSettingModel
	err := s.db.WithContext(ctx).First(&row, "setting_id = ?", 1).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = model.SiteSettingModel{SettingID: 1}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		// Lost a cross-process race: someone else created the row.
		var existing model.SiteSettingModel
		if err2 := s.db.WithContext(ctx).First(&existing, "setting_id = ?", 1).Error; err2 == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &row, nil
}

// Update persists changed settings fields onto the singleton row.
func (s *Service) Update(ctx context.Context, schoolName, contactEmail, smtpHost string, smtpPort int) (*model.SiteSettingModel, error) {
	row, err := s.GetOrInit(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row.SettingSchoolName = schoolName
	row.SettingContactEmail = contactEmail
	row.SettingSMTPHost = smtpHost
	if smtpPort > 0 {
		row.SettingSMTPPort = smtpPort
	}
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
