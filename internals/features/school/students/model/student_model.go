// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Education levels & shifts
const (
	LevelInfantil    = "infantil" // early years: morning shift only
	LevelFundamental = "fundamental"
	LevelMedio       = "medio"

	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
)

const (
	StudentAgeMin = 5
	StudentAgeMax = 18
)

type StudentModel struct {
	// PK is generated app-side so the identifier stays stable no matter
	// which persistence backend the deployment writes to.
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`

	// Identity
	StudentName           string     `gorm:"type:varchar(120);not null;index;column:student_name"                                        json:"student_name"`
	StudentBirthDate      *time.Time `gorm:"type:date;column:student_birth_date"                                                         json:"student_birth_date,omitempty"`
	StudentCPF            *string    `gorm:"type:varchar(14);index;column:student_cpf"                                                   json:"student_cpf,omitempty"`
	StudentRegistryNumber string     `gorm:"type:varchar(20);not null;uniqueIndex:ux_students_registry,where:student_deleted_at IS NULL;column:student_registry_number" json:"student_registry_number"`

	// Academic placement
	StudentLevel        string `gorm:"type:varchar(20);not null;column:student_level"         json:"student_level"`
	StudentShift        string `gorm:"type:varchar(20);not null;column:student_shift"         json:"student_shift"`
	StudentGradeYear    int    `gorm:"not null;column:student_grade_year"                     json:"student_grade_year"`
	StudentClassSection string `gorm:"type:varchar(10);column:student_class_section"          json:"student_class_section"`

	// Contact
	StudentEmail   *string `gorm:"type:varchar(120);uniqueIndex:ux_students_email,where:student_deleted_at IS NULL;column:student_email" json:"student_email,omitempty"`
	StudentPhone   string  `gorm:"type:varchar(20);column:student_phone"   json:"student_phone"`
	StudentAddress string  `gorm:"type:text;column:student_address"        json:"student_address"`

	// Guardians (primary required, secondary optional)
	StudentGuardianName    string  `gorm:"type:varchar(120);not null;column:student_guardian_name"  json:"student_guardian_name"`
	StudentGuardianPhone   string  `gorm:"type:varchar(20);not null;column:student_guardian_phone"  json:"student_guardian_phone"`
	StudentGuardian2Name   *string `gorm:"type:varchar(120);column:student_guardian2_name"          json:"student_guardian2_name,omitempty"`
	StudentGuardian2Phone  *string `gorm:"type:varchar(20);column:student_guardian2_phone"          json:"student_guardian2_phone,omitempty"`

	// Free-form structured extras
	StudentExtra datatypes.JSONMap `gorm:"column:student_extra" json:"student_extra,omitempty"`

	// Photo reference: remote public URL or local relative path, never both.
	StudentPhotoURL  *string `gorm:"type:text;column:student_photo_url"  json:"student_photo_url,omitempty"`
	StudentPhotoPath *string `gorm:"type:text;column:student_photo_path" json:"student_photo_path,omitempty"`

	// Status & audit. CPF uniqueness is scoped to active rows only and is
	// enforced at the validation layer, not by an index: a deactivated
	// student may legitimately share a CPF with an active one.
	StudentIsActive  bool           `gorm:"not null;default:true;column:student_is_active" json:"student_is_active"`
	StudentCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:student_updated_at" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

// PhotoRef returns whichever photo reference is set (URL wins).
func (m *StudentModel) PhotoRef() string {
	if m.StudentPhotoURL != nil && *m.StudentPhotoURL != "" {
		return *m.StudentPhotoURL
	}
	if m.StudentPhotoPath != nil && *m.StudentPhotoPath != "" {
		return *m.StudentPhotoPath
	}
	return ""
}

// AgeAt computes full years between the birth date and ref.
func AgeAt(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}
