// file: internals/features/school/students/dto/student_dto.go
package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "escola_backend/internals/features/school/students/model"
)

/* =======================================================
   COMMANDS (typed per operation, no dict payloads)
   ======================================================= */

// CreateStudentCommand enumerates every create field and its optionality.
type CreateStudentCommand struct {
	Name           string     `json:"student_name"            validate:"required,min=2,max=120"`
	BirthDate      *time.Time `json:"student_birth_date"      validate:"omitempty"`
	CPF            *string    `json:"student_cpf"             validate:"omitempty,cpf"`
	RegistryNumber string     `json:"student_registry_number" validate:"required,min=1,max=20"`

	Level        string `json:"student_level"         validate:"required,oneof=infantil fundamental medio"`
	Shift        string `json:"student_shift"         validate:"required,oneof=morning afternoon"`
	GradeYear    int    `json:"student_grade_year"    validate:"required,min=1,max=12"`
	ClassSection string `json:"student_class_section" validate:"omitempty,max=10"`

	Email   *string `json:"student_email"   validate:"omitempty,email"`
	Phone   string  `json:"student_phone"   validate:"omitempty,brphone"`
	Address string  `json:"student_address" validate:"omitempty,max=500"`

	GuardianName   string  `json:"student_guardian_name"   validate:"required,min=2,max=120"`
	GuardianPhone  string  `json:"student_guardian_phone"  validate:"required,brphone"`
	Guardian2Name  *string `json:"student_guardian2_name"  validate:"omitempty,max=120"`
	Guardian2Phone *string `json:"student_guardian2_phone" validate:"omitempty,brphone"`

	Extra    map[string]any `json:"student_extra"     validate:"omitempty"`
	IsActive *bool          `json:"student_is_active" validate:"omitempty"`

	// Photo inputs: a multipart upload or a capture-widget data URL.
	PhotoFile    *multipart.FileHeader `json:"-"`
	PhotoDataURL string                `json:"student_photo_data_url"`
}

// UpdateStudentCommand carries the same fields plus the target identity
// and an explicit clear-photo signal.
type UpdateStudentCommand struct {
	StudentID uuid.UUID `json:"-" validate:"required"`

	Name           string     `json:"student_name"            validate:"required,min=2,max=120"`
	BirthDate      *time.Time `json:"student_birth_date"      validate:"omitempty"`
	CPF            *string    `json:"student_cpf"             validate:"omitempty,cpf"`
	RegistryNumber string     `json:"student_registry_number" validate:"required,min=1,max=20"`

	Level        string `json:"student_level"         validate:"required,oneof=infantil fundamental medio"`
	Shift        string `json:"student_shift"         validate:"required,oneof=morning afternoon"`
	GradeYear    int    `json:"student_grade_year"    validate:"required,min=1,max=12"`
	ClassSection string `json:"student_class_section" validate:"omitempty,max=10"`

	Email   *string `json:"student_email"   validate:"omitempty,email"`
	Phone   string  `json:"student_phone"   validate:"omitempty,brphone"`
	Address string  `json:"student_address" validate:"omitempty,max=500"`

	GuardianName   string  `json:"student_guardian_name"   validate:"required,min=2,max=120"`
	GuardianPhone  string  `json:"student_guardian_phone"  validate:"required,brphone"`
	Guardian2Name  *string `json:"student_guardian2_name"  validate:"omitempty,max=120"`
	Guardian2Phone *string `json:"student_guardian2_phone" validate:"omitempty,brphone"`

	Extra    map[string]any `json:"student_extra"     validate:"omitempty"`
	IsActive *bool          `json:"student_is_active" validate:"omitempty"`

	PhotoFile    *multipart.FileHeader `json:"-"`
	PhotoDataURL string                `json:"student_photo_data_url"`
	ClearPhoto   bool                  `json:"student_clear_photo"`
}

/* =======================================================
   FILTERS (listing engine input)
   ======================================================= */

type StudentListFilter struct {
	Level     string
	Shift     string
	GradeYear int
	Search    string // matches name / registry number / CPF
}

/* =======================================================
   RESPONSES
   ======================================================= */

// StudentListItem carries only the columns the listing projects.
type StudentListItem struct {
	StudentID             uuid.UUID `json:"student_id"`
	StudentName           string    `json:"student_name"`
	StudentRegistryNumber string    `json:"student_registry_number"`
	StudentLevel          string    `json:"student_level"`
	StudentShift          string    `json:"student_shift"`
	StudentGradeYear      int       `json:"student_grade_year"`
	StudentPhoto          string    `json:"student_photo,omitempty"`
}

type StudentResponse struct {
	StudentID             uuid.UUID      `json:"student_id"`
	StudentName           string         `json:"student_name"`
	StudentBirthDate      *string        `json:"student_birth_date,omitempty"`
	StudentCPF            *string        `json:"student_cpf,omitempty"`
	StudentRegistryNumber string         `json:"student_registry_number"`
	StudentLevel          string         `json:"student_level"`
	StudentShift          string         `json:"student_shift"`
	StudentGradeYear      int            `json:"student_grade_year"`
	StudentClassSection   string         `json:"student_class_section"`
	StudentEmail          *string        `json:"student_email,omitempty"`
	StudentPhone          string         `json:"student_phone"`
	StudentAddress        string         `json:"student_address"`
	StudentGuardianName   string         `json:"student_guardian_name"`
	StudentGuardianPhone  string         `json:"student_guardian_phone"`
	StudentGuardian2Name  *string        `json:"student_guardian2_name,omitempty"`
	StudentGuardian2Phone *string        `json:"student_guardian2_phone,omitempty"`
	StudentExtra          map[string]any `json:"student_extra,omitempty"`
	StudentPhoto          string         `json:"student_photo,omitempty"`
	StudentIsActive       bool           `json:"student_is_active"`
	StudentCreatedAt      time.Time      `json:"student_created_at"`
	StudentUpdatedAt      time.Time      `json:"student_updated_at"`
	PhotoWarning          string         `json:"photo_warning,omitempty"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	resp := StudentResponse{
		StudentID:             m.StudentID,
		StudentName:           m.StudentName,
		StudentCPF:            m.StudentCPF,
		StudentRegistryNumber: m.StudentRegistryNumber,
		StudentLevel:          m.StudentLevel,
		StudentShift:          m.StudentShift,
		StudentGradeYear:      m.StudentGradeYear,
		StudentClassSection:   m.StudentClassSection,
		StudentEmail:          m.StudentEmail,
		StudentPhone:          m.StudentPhone,
		StudentAddress:        m.StudentAddress,
		StudentGuardianName:   m.StudentGuardianName,
		StudentGuardianPhone:  m.StudentGuardianPhone,
		StudentGuardian2Name:  m.StudentGuardian2Name,
		StudentGuardian2Phone: m.StudentGuardian2Phone,
		StudentExtra:          m.StudentExtra,
		StudentPhoto:          m.PhotoRef(),
		StudentIsActive:       m.StudentIsActive,
		StudentCreatedAt:      m.StudentCreatedAt,
		StudentUpdatedAt:      m.StudentUpdatedAt,
	}
	if m.StudentBirthDate != nil {
		s := m.StudentBirthDate.Format("2006-01-02")
		resp.StudentBirthDate = &s
	}
	return resp
}

// ToModel maps a create command onto a fresh model. The ID is set by the
// writer before persistence.
func (cmd *CreateStudentCommand) ToModel() *model.StudentModel {
	m := &model.StudentModel{
		StudentName:           cmd.Name,
		StudentBirthDate:      cmd.BirthDate,
		StudentCPF:            cmd.CPF,
		StudentRegistryNumber: cmd.RegistryNumber,
		StudentLevel:          cmd.Level,
		StudentShift:          cmd.Shift,
		StudentGradeYear:      cmd.GradeYear,
		StudentClassSection:   cmd.ClassSection,
		StudentEmail:          cmd.Email,
		StudentPhone:          cmd.Phone,
		StudentAddress:        cmd.Address,
		StudentGuardianName:   cmd.GuardianName,
		StudentGuardianPhone:  cmd.GuardianPhone,
		StudentGuardian2Name:  cmd.Guardian2Name,
		StudentGuardian2Phone: cmd.Guardian2Phone,
		StudentIsActive:       true,
	}
	if cmd.Extra != nil {
		m.StudentExtra = datatypes.JSONMap(cmd.Extra)
	}
	if cmd.IsActive != nil {
		m.StudentIsActive = *cmd.IsActive
	}
	return m
}

// Apply maps an update command onto an existing model (photo fields are
// handled by the writer).
func (cmd *UpdateStudentCommand) Apply(m *model.StudentModel) {
	m.StudentName = cmd.Name
	m.StudentBirthDate = cmd.BirthDate
	m.StudentCPF = cmd.CPF
	m.StudentRegistryNumber = cmd.RegistryNumber
	m.StudentLevel = cmd.Level
	m.StudentShift = cmd.Shift
	m.StudentGradeYear = cmd.GradeYear
	m.StudentClassSection = cmd.ClassSection
	m.StudentEmail = cmd.Email
	m.StudentPhone = cmd.Phone
	m.StudentAddress = cmd.Address
	m.StudentGuardianName = cmd.GuardianName
	m.StudentGuardianPhone = cmd.GuardianPhone
	m.StudentGuardian2Name = cmd.Guardian2Name
	m.StudentGuardian2Phone = cmd.Guardian2Phone
	if cmd.Extra != nil {
		m.StudentExtra = datatypes.JSONMap(cmd.Extra)
	}
	if cmd.IsActive != nil {
		m.StudentIsActive = *cmd.IsActive
	}
	m.StudentUpdatedAt = time.Now()
}
