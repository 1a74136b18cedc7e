// file: internals/features/school/grades/model/grade_model.go
package model

import (
	"time"

	"github.com/google/uuid"

	studentModel "escola_backend/internals/features/school/students/model"
)

// Subjects taught across all levels.
const (
	SubjectPortugues      = "portugues"
	SubjectMatematica     = "matematica"
	SubjectCiencias       = "ciencias"
	SubjectHistoria       = "historia"
	SubjectGeografia      = "geografia"
	SubjectArtes          = "artes"
	SubjectEducacaoFisica = "educacao_fisica"
	SubjectIngles         = "ingles"
)

var Subjects = []string{
	SubjectPortugues, SubjectMatematica, SubjectCiencias, SubjectHistoria,
	SubjectGeografia, SubjectArtes, SubjectEducacaoFisica, SubjectIngles,
}

const (
	GradeValueMin = 0.0
	GradeValueMax = 10.0
	TermMin       = 1
	TermMax       = 4

	// Grades below this value show up in the low-grades report.
	PassingThreshold = 6.0
)

type GradeModel struct {
	GradeID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:grade_id" json:"grade_id"`
	GradeStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_grades_student_subject_term;index:idx_grades_student_subject;column:grade_student_id" json:"grade_student_id"`

	GradeSubject string    `gorm:"type:varchar(30);not null;uniqueIndex:ux_grades_student_subject_term;index:idx_grades_student_subject;column:grade_subject" json:"grade_subject"`
	GradeValue   float64   `gorm:"type:numeric(4,2);not null;column:grade_value" json:"grade_value"`
	GradeTerm    int       `gorm:"not null;uniqueIndex:ux_grades_student_subject_term;column:grade_term" json:"grade_term"`
	GradeDate    time.Time `gorm:"type:date;not null;column:grade_date"          json:"grade_date"`
	GradeNote    *string   `gorm:"type:text;column:grade_note"                   json:"grade_note,omitempty"`

	GradeCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:grade_created_at" json:"grade_created_at"`
	GradeUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:grade_updated_at" json:"grade_updated_at"`

	// Grades die with their student.
	Student *studentModel.StudentModel `gorm:"foreignKey:GradeStudentID;references:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (GradeModel) TableName() string { return "grades" }

// IsKnownSubject reports whether s is one of the subject enum values.
func IsKnownSubject(s string) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}
