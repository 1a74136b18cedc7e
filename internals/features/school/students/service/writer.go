// file: internals/features/school/students/service/writer.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	// ErrBackendWrite marks a fatal backend failure: the primary record
	// operation did not complete (unlike photo failures, which are
	// non-fatal and carried in PhotoOutcome).
	ErrBackendWrite = errors.New("backend write failed")
)

// StudentWriter persists student mutations. A deployment wires exactly
// one implementation, chosen from config at startup: the local relational
// writer or the remote table-API writer.
type StudentWriter interface {
	Create(ctx context.Context, cmd *dto.CreateStudentCommand) (*model.StudentModel, PhotoOutcome, error)
	Update(ctx context.Context, cmd *dto.UpdateStudentCommand) (*model.StudentModel, PhotoOutcome, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StudentReader loads the stored row an update or delete starts from.
type StudentReader interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error)
}

type gormStudentReader struct{ db *gorm.DB }

func (r *gormStudentReader) ByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := r.db.WithContext(ctx).First(&m, "student_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// attachPhotoRef stores the reference on the right column: URL for remote
// stores, relative path for the local filesystem. The two are mutually
// exclusive, so the other column is cleared.
func attachPhotoRef(m *model.StudentModel, ref string, remote bool) {
	if remote {
		m.StudentPhotoURL = &ref
		m.StudentPhotoPath = nil
	} else {
		m.StudentPhotoPath = &ref
		m.StudentPhotoURL = nil
	}
}

func clearPhotoRef(m *model.StudentModel) {
	m.StudentPhotoURL = nil
	m.StudentPhotoPath = nil
}
