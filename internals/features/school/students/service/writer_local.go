// file: internals/features/school/students/service/writer_local.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gradeModel "escola_backend/internals/features/school/grades/model"
	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
)

// LocalStudentWriter writes directly to the relational store. Each
// mutation runs inside one transaction so a failure partway through never
// leaves a half-written record. The photo leg stays outside: it is
// best-effort and non-fatal by design.
type LocalStudentWriter struct {
	DB     *gorm.DB
	Photos *PhotoService
}

func NewLocalStudentWriter(db *gorm.DB, photos *PhotoService) *LocalStudentWriter {
	return &LocalStudentWriter{DB: db, Photos: photos}
}

func (w *LocalStudentWriter) Create(ctx context.Context, cmd *dto.CreateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	m := cmd.ToModel()
	// The identifier is generated here, not by the store, so it is stable
	// across backend choice (and usable in the photo object name).
	m.StudentID = uuid.New()

	outcome := w.Photos.ProcessAndStore(ctx, m.StudentID, cmd.PhotoFile, cmd.PhotoDataURL)
	if outcome.OK() {
		attachPhotoRef(m, outcome.Ref, w.Photos.Remote())
	} else if outcome.Err != nil {
		log.Printf("[STUDENTS][CREATE][WARN] photo processing failed, creating without photo: %v", outcome.Err)
	}

	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, outcome, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return m, outcome, nil
}

func (w *LocalStudentWriter) Update(ctx context.Context, cmd *dto.UpdateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	var existing model.StudentModel
	if err := w.DB.WithContext(ctx).First(&existing, "student_id = ?", cmd.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, PhotoOutcome{Skipped: true}, ErrStudentNotFound
		}
		return nil, PhotoOutcome{Skipped: true}, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}

	oldRef := existing.PhotoRef()
	cmd.Apply(&existing)

	outcome := PhotoOutcome{Skipped: true}
	switch {
	case cmd.ClearPhoto:
		clearPhotoRef(&existing)
		if oldRef != "" {
			if err := w.Photos.DeleteStored(ctx, oldRef); err != nil {
				log.Printf("[STUDENTS][UPDATE][WARN] old photo delete failed: %v", err)
			}
		}
	default:
		outcome = w.Photos.ProcessAndStore(ctx, existing.StudentID, cmd.PhotoFile, cmd.PhotoDataURL)
		if outcome.OK() {
			attachPhotoRef(&existing, outcome.Ref, w.Photos.Remote())
			if oldRef != "" {
				if err := w.Photos.DeleteStored(ctx, oldRef); err != nil {
					log.Printf("[STUDENTS][UPDATE][WARN] old photo delete failed: %v", err)
				}
			}
		} else if outcome.Err != nil {
			log.Printf("[STUDENTS][UPDATE][WARN] photo processing failed, keeping previous photo: %v", outcome.Err)
		}
	}

	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, outcome, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return &existing, outcome, nil
}

func (w *LocalStudentWriter) Delete(ctx context.Context, id uuid.UUID) error {
	var existing model.StudentModel
	if err := w.DB.WithContext(ctx).First(&existing, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}

	// Photo delete is best effort; the row delete is the operation.
	if ref := existing.PhotoRef(); ref != "" {
		if err := w.Photos.DeleteStored(ctx, ref); err != nil {
			log.Printf("[STUDENTS][DELETE][WARN] photo delete failed: %v", err)
		}
	}

	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Grades die with their student; the student row itself is
		// soft-deleted so its registry number frees up for reuse while
		// history stays queryable.
		if err := tx.Where("grade_student_id = ?", id).Delete(&gradeModel.GradeModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return nil
}
