// file: internals/features/school/grades/dto/grade_dto.go
package dto

import (
	"math"
	"time"

	"github.com/google/uuid"

	model "escola_backend/internals/features/school/grades/model"
)

type CreateGradeCommand struct {
	StudentID uuid.UUID `json:"grade_student_id" validate:"required"`
	Subject   string    `json:"grade_subject"    validate:"required"`
	Value     float64   `json:"grade_value"      validate:"min=0,max=10"`
	Term      int       `json:"grade_term"       validate:"required,min=1,max=4"`
	Date      string    `json:"grade_date"       validate:"required"` // yyyy-mm-dd
	Note      *string   `json:"grade_note"       validate:"omitempty,max=500"`
}

type UpdateGradeCommand struct {
	GradeID uuid.UUID `json:"-"            validate:"required"`
	Value   float64   `json:"grade_value"  validate:"min=0,max=10"`
	Date    string    `json:"grade_date"   validate:"required"`
	Note    *string   `json:"grade_note"   validate:"omitempty,max=500"`
}

type GradeResponse struct {
	GradeID        uuid.UUID `json:"grade_id"`
	GradeStudentID uuid.UUID `json:"grade_student_id"`
	GradeSubject   string    `json:"grade_subject"`
	GradeValue     float64   `json:"grade_value"`
	GradeTerm      int       `json:"grade_term"`
	GradeDate      string    `json:"grade_date"`
	GradeNote      *string   `json:"grade_note,omitempty"`
	GradeCreatedAt time.Time `json:"grade_created_at"`
}

func FromModel(m *model.GradeModel) GradeResponse {
	return GradeResponse{
		GradeID:        m.GradeID,
		GradeStudentID: m.GradeStudentID,
		GradeSubject:   m.GradeSubject,
		GradeValue:     m.GradeValue,
		GradeTerm:      m.GradeTerm,
		GradeDate:      m.GradeDate.Format("2006-01-02"),
		GradeNote:      m.GradeNote,
		GradeCreatedAt: m.GradeCreatedAt,
	}
}

// RoundValue normalizes a grade to two-decimal precision.
func RoundValue(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValueInRange is the defense-in-depth check run again right before any
// write, independent of the form-level validation.
func ValueInRange(v float64) bool {
	return v >= model.GradeValueMin && v <= model.GradeValueMax
}
