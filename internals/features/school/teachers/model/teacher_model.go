// file: internals/features/school/teachers/model/teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherModel struct {
	TeacherID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teacher_id" json:"teacher_id"`

	TeacherName          string     `gorm:"type:varchar(120);not null;column:teacher_name" json:"teacher_name"`
	TeacherEmail         string     `gorm:"type:varchar(120);not null;uniqueIndex:ux_teachers_email,where:teacher_deleted_at IS NULL;column:teacher_email" json:"teacher_email"`
	TeacherPhone         string     `gorm:"type:varchar(20);column:teacher_phone"          json:"teacher_phone"`
	TeacherQualification string     `gorm:"type:varchar(120);column:teacher_qualification" json:"teacher_qualification"`
	TeacherSpecialty     string     `gorm:"type:varchar(120);column:teacher_specialty"     json:"teacher_specialty"`
	TeacherBirthDate     *time.Time `gorm:"type:date;column:teacher_birth_date"            json:"teacher_birth_date,omitempty"`
	TeacherPhotoURL      *string    `gorm:"type:text;column:teacher_photo_url"             json:"teacher_photo_url,omitempty"`

	// Optional linked login identity.
	TeacherUserID *uuid.UUID `gorm:"type:uuid;column:teacher_user_id" json:"teacher_user_id,omitempty"`

	TeacherIsActive  bool           `gorm:"not null;default:true;column:teacher_is_active" json:"teacher_is_active"`
	TeacherCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:teacher_created_at" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:teacher_updated_at" json:"teacher_updated_at"`
	TeacherDeletedAt gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"teacher_deleted_at,omitempty"`
}

func (TeacherModel) TableName() string { return "teachers" }

// SubjectAssignmentModel links a teacher to a subject taught in a class
// section for one academic year. Unique on the full tuple.
type SubjectAssignmentModel struct {
	AssignmentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:assignment_id" json:"assignment_id"`

	AssignmentTeacherID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_assignments_tuple;column:assignment_teacher_id" json:"assignment_teacher_id"`
	AssignmentSubject      string    `gorm:"type:varchar(30);not null;uniqueIndex:ux_assignments_tuple;column:assignment_subject" json:"assignment_subject"`
	AssignmentClassSection string    `gorm:"type:varchar(10);not null;uniqueIndex:ux_assignments_tuple;column:assignment_class_section" json:"assignment_class_section"`
	AssignmentYear         int       `gorm:"not null;uniqueIndex:ux_assignments_tuple;column:assignment_year" json:"assignment_year"`

	AssignmentCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:assignment_created_at" json:"assignment_created_at"`

	Teacher *TeacherModel `gorm:"foreignKey:AssignmentTeacherID;references:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SubjectAssignmentModel) TableName() string { return "subject_assignments" }

// AvailabilitySlotModel is one weekly availability window of a teacher.
// Unique per (teacher, weekday, start time).
type AvailabilitySlotModel struct {
	SlotID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:slot_id" json:"slot_id"`

	SlotTeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_slots_teacher_day_start;column:slot_teacher_id" json:"slot_teacher_id"`
	SlotWeekday   int       `gorm:"not null;uniqueIndex:ux_slots_teacher_day_start;column:slot_weekday" json:"slot_weekday"` // 0=Sunday … 6=Saturday
	SlotStartTime string    `gorm:"type:varchar(5);not null;uniqueIndex:ux_slots_teacher_day_start;column:slot_start_time" json:"slot_start_time"` // "HH:MM"
	SlotEndTime   string    `gorm:"type:varchar(5);not null;column:slot_end_time" json:"slot_end_time"`

	SlotCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:slot_created_at" json:"slot_created_at"`

	Teacher *TeacherModel `gorm:"foreignKey:SlotTeacherID;references:TeacherID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AvailabilitySlotModel) TableName() string { return "availability_slots" }
