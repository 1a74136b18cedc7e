// file: internals/features/school/students/service/writer_supabase.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
)

const studentsTable = "students"

// TableAPI is the slice of the remote table service the writer needs.
type TableAPI interface {
	InsertRow(ctx context.Context, table string, record any) (map[string]any, error)
	UpdateRow(ctx context.Context, table, pkColumn, id string, record any) (map[string]any, error)
	DeleteRow(ctx context.Context, table, pkColumn, id string) error
}

// SupabaseStudentWriter routes student mutations through the remote
// table API. Reads still come from the relational store (the remote
// service fronts the same database). The remote call is not covered by a
// local transaction; see DESIGN.md for the documented consistency gap.
type SupabaseStudentWriter struct {
	Reader StudentReader
	Table  TableAPI
	Photos *PhotoService
}

func NewSupabaseStudentWriter(db *gorm.DB, table TableAPI, photos *PhotoService) *SupabaseStudentWriter {
	return &SupabaseStudentWriter{Reader: &gormStudentReader{db: db}, Table: table, Photos: photos}
}

func (w *SupabaseStudentWriter) Create(ctx context.Context, cmd *dto.CreateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	m := cmd.ToModel()
	m.StudentID = uuid.New()
	m.StudentCreatedAt = time.Now()
	m.StudentUpdatedAt = m.StudentCreatedAt

	outcome := w.Photos.ProcessAndStore(ctx, m.StudentID, cmd.PhotoFile, cmd.PhotoDataURL)
	if outcome.OK() {
		attachPhotoRef(m, outcome.Ref, w.Photos.Remote())
	} else if outcome.Err != nil {
		log.Printf("[STUDENTS][CREATE][WARN] photo processing failed, creating without photo: %v", outcome.Err)
	}

	// A write that returns no row did not happen: fatal.
	if _, err := w.Table.InsertRow(ctx, studentsTable, studentRow(m, true)); err != nil {
		return nil, outcome, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return m, outcome, nil
}

func (w *SupabaseStudentWriter) Update(ctx context.Context, cmd *dto.UpdateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	existing, err := w.Reader.ByID(ctx, cmd.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, PhotoOutcome{Skipped: true}, ErrStudentNotFound
		}
		return nil, PhotoOutcome{Skipped: true}, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}

	oldRef := existing.PhotoRef()
	cmd.Apply(existing)

	outcome := PhotoOutcome{Skipped: true}
	switch {
	case cmd.ClearPhoto:
		clearPhotoRef(existing)
		if oldRef != "" {
			if err := w.Photos.DeleteStored(ctx, oldRef); err != nil {
				log.Printf("[STUDENTS][UPDATE][WARN] old photo delete failed: %v", err)
			}
		}
	default:
		outcome = w.Photos.ProcessAndStore(ctx, existing.StudentID, cmd.PhotoFile, cmd.PhotoDataURL)
		if outcome.OK() {
			attachPhotoRef(existing, outcome.Ref, w.Photos.Remote())
			if oldRef != "" {
				if err := w.Photos.DeleteStored(ctx, oldRef); err != nil {
					log.Printf("[STUDENTS][UPDATE][WARN] old photo delete failed: %v", err)
				}
			}
		} else if outcome.Err != nil {
			log.Printf("[STUDENTS][UPDATE][WARN] photo processing failed, keeping previous photo: %v", outcome.Err)
		}
	}

	if _, err := w.Table.UpdateRow(ctx, studentsTable, "student_id", existing.StudentID.String(), studentRow(existing, false)); err != nil {
		return nil, outcome, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return existing, outcome, nil
}

func (w *SupabaseStudentWriter) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := w.Reader.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}

	// Non-fatal leg first: the stored photo.
	if ref := existing.PhotoRef(); ref != "" {
		if err := w.Photos.DeleteStored(ctx, ref); err != nil {
			log.Printf("[STUDENTS][DELETE][WARN] photo delete failed: %v", err)
		}
	}

	// Fatal leg: the table row. A failed remote delete means the
	// operation did not complete.
	if err := w.Table.DeleteRow(ctx, studentsTable, "student_id", id.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}
	return nil
}

// studentRow shapes a model into the remote table payload. withID is set
// on insert; updates address the row through the query string instead.
func studentRow(m *model.StudentModel, withID bool) map[string]any {
	row := map[string]any{
		"student_name":            m.StudentName,
		"student_cpf":             m.StudentCPF,
		"student_registry_number": m.StudentRegistryNumber,
		"student_level":           m.StudentLevel,
		"student_shift":           m.StudentShift,
		"student_grade_year":      m.StudentGradeYear,
		"student_class_section":   m.StudentClassSection,
		"student_email":           m.StudentEmail,
		"student_phone":           m.StudentPhone,
		"student_address":         m.StudentAddress,
		"student_guardian_name":   m.StudentGuardianName,
		"student_guardian_phone":  m.StudentGuardianPhone,
		"student_guardian2_name":  m.StudentGuardian2Name,
		"student_guardian2_phone": m.StudentGuardian2Phone,
		"student_photo_url":       m.StudentPhotoURL,
		"student_photo_path":      m.StudentPhotoPath,
		"student_is_active":       m.StudentIsActive,
		"student_updated_at":      m.StudentUpdatedAt.Format(time.RFC3339),
	}
	if withID {
		row["student_id"] = m.StudentID.String()
		row["student_created_at"] = m.StudentCreatedAt.Format(time.RFC3339)
	}
	if m.StudentBirthDate != nil {
		row["student_birth_date"] = m.StudentBirthDate.Format("2006-01-02")
	} else {
		row["student_birth_date"] = nil
	}
	if m.StudentExtra != nil {
		row["student_extra"] = map[string]any(m.StudentExtra)
	}
	return row
}
