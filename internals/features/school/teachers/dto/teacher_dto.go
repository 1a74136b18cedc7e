// file: internals/features/school/teachers/dto/teacher_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "escola_backend/internals/features/school/teachers/model"
)

type CreateTeacherCommand struct {
	Name          string     `json:"teacher_name"          validate:"required,min=2,max=120"`
	Email         string     `json:"teacher_email"         validate:"required,email"`
	Phone         string     `json:"teacher_phone"         validate:"omitempty,brphone"`
	Qualification string     `json:"teacher_qualification" validate:"omitempty,max=120"`
	Specialty     string     `json:"teacher_specialty"     validate:"omitempty,max=120"`
	BirthDate     *time.Time `json:"teacher_birth_date"    validate:"omitempty"`
	UserID        *uuid.UUID `json:"teacher_user_id"       validate:"omitempty"`
	IsActive      *bool      `json:"teacher_is_active"     validate:"omitempty"`
}

type UpdateTeacherCommand struct {
	TeacherID uuid.UUID `json:"-" validate:"required"`
	CreateTeacherCommand
}

type CreateAssignmentCommand struct {
	TeacherID    uuid.UUID `json:"assignment_teacher_id"    validate:"required"`
	Subject      string    `json:"assignment_subject"       validate:"required"`
	ClassSection string    `json:"assignment_class_section" validate:"required,max=10"`
	Year         int       `json:"assignment_year"          validate:"required,min=2000,max=2100"`
}

type CreateSlotCommand struct {
	TeacherID uuid.UUID `json:"slot_teacher_id"  validate:"required"`
	Weekday   int       `json:"slot_weekday"     validate:"min=0,max=6"`
	StartTime string    `json:"slot_start_time"  validate:"required,len=5"` // "HH:MM"
	EndTime   string    `json:"slot_end_time"    validate:"required,len=5"`
}

type TeacherResponse struct {
	TeacherID            uuid.UUID  `json:"teacher_id"`
	TeacherName          string     `json:"teacher_name"`
	TeacherEmail         string     `json:"teacher_email"`
	TeacherPhone         string     `json:"teacher_phone"`
	TeacherQualification string     `json:"teacher_qualification"`
	TeacherSpecialty     string     `json:"teacher_specialty"`
	TeacherBirthDate     *string    `json:"teacher_birth_date,omitempty"`
	TeacherPhotoURL      *string    `json:"teacher_photo_url,omitempty"`
	TeacherUserID        *uuid.UUID `json:"teacher_user_id,omitempty"`
	TeacherIsActive      bool       `json:"teacher_is_active"`
	TeacherCreatedAt     time.Time  `json:"teacher_created_at"`
}

func FromModel(m *model.TeacherModel) TeacherResponse {
	resp := TeacherResponse{
		TeacherID:            m.TeacherID,
		TeacherName:          m.TeacherName,
		TeacherEmail:         m.TeacherEmail,
		TeacherPhone:         m.TeacherPhone,
		TeacherQualification: m.TeacherQualification,
		TeacherSpecialty:     m.TeacherSpecialty,
		TeacherPhotoURL:      m.TeacherPhotoURL,
		TeacherUserID:        m.TeacherUserID,
		TeacherIsActive:      m.TeacherIsActive,
		TeacherCreatedAt:     m.TeacherCreatedAt,
	}
	if m.TeacherBirthDate != nil {
		s := m.TeacherBirthDate.Format("2006-01-02")
		resp.TeacherBirthDate = &s
	}
	return resp
}
