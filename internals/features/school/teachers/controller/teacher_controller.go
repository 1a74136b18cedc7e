// file: internals/features/school/teachers/controller/teacher_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	gradeModel "escola_backend/internals/features/school/grades/model"
	dto "escola_backend/internals/features/school/teachers/dto"
	model "escola_backend/internals/features/school/teachers/model"
	helper "escola_backend/internals/helpers"
)

type TeacherController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTeacherController(db *gorm.DB, v *validator.Validate) *TeacherController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &TeacherController{DB: db, Validate: v}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

/* ============================ CRUD ============================ */

func (ctl *TeacherController) Create(c *fiber.Ctx) error {
	var cmd dto.CreateTeacherCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}

	m := &model.TeacherModel{
		TeacherName:          cmd.Name,
		TeacherEmail:         cmd.Email,
		TeacherPhone:         cmd.Phone,
		TeacherQualification: cmd.Qualification,
		TeacherSpecialty:     cmd.Specialty,
		TeacherBirthDate:     cmd.BirthDate,
		TeacherUserID:        cmd.UserID,
		TeacherIsActive:      true,
	}
	if cmd.IsActive != nil {
		m.TeacherIsActive = *cmd.IsActive
	}
	if err := ctl.DB.WithContext(reqCtx(c)).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "email already in use")
		}
		log.Printf("[TEACHERS][CREATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save teacher")
	}
	return helper.JsonCreated(c, "teacher created", dto.FromModel(m))
}

func (ctl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}
	var cmd dto.UpdateTeacherCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	cmd.TeacherID = id
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}

	var m model.TeacherModel
	if err := ctl.DB.WithContext(reqCtx(c)).First(&m, "teacher_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "teacher not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load teacher")
	}

	m.TeacherName = cmd.Name
	m.TeacherEmail = cmd.Email
	m.TeacherPhone = cmd.Phone
	m.TeacherQualification = cmd.Qualification
	m.TeacherSpecialty = cmd.Specialty
	m.TeacherBirthDate = cmd.BirthDate
	m.TeacherUserID = cmd.UserID
	if cmd.IsActive != nil {
		m.TeacherIsActive = *cmd.IsActive
	}
	m.TeacherUpdatedAt = time.Now()

	if err := ctl.DB.WithContext(reqCtx(c)).Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "email already in use")
		}
		log.Printf("[TEACHERS][UPDATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save teacher")
	}
	return helper.JsonUpdated(c, "teacher updated", dto.FromModel(&m))
}

func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}

	// Assignments and availability slots die with their teacher.
	err = ctl.DB.WithContext(reqCtx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_teacher_id = ?", id).Delete(&model.SubjectAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("slot_teacher_id = ?", id).Delete(&model.AvailabilitySlotModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.TeacherModel{}, "teacher_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "teacher not found")
		}
		log.Printf("[TEACHERS][DELETE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not delete teacher")
	}
	return helper.JsonDeleted(c, "teacher deleted", fiber.Map{"teacher_id": id})
}

func (ctl *TeacherController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}
	var m model.TeacherModel
	if err := ctl.DB.WithContext(reqCtx(c)).First(&m, "teacher_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "teacher not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load teacher")
	}
	return helper.JsonOK(c, "", dto.FromModel(&m))
}

func (ctl *TeacherController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	q := ctl.DB.WithContext(reqCtx(c)).Model(&model.TeacherModel{})
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[TEACHERS][LIST] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not list teachers")
	}

	var rows []model.TeacherModel
	if err := q.Order("teacher_name").Limit(paging.Limit).Offset(paging.Offset).Find(&rows).Error; err != nil {
		log.Printf("[TEACHERS][LIST] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not list teachers")
	}
	out := make([]dto.TeacherResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pagination.Count = len(out)
	return helper.JsonList(c, "", out, &pagination)
}

/* ===================== ASSIGNMENTS & SLOTS ===================== */

func (ctl *TeacherController) CreateAssignment(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}
	var cmd dto.CreateAssignmentCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	cmd.TeacherID = teacherID
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}
	if !gradeModel.IsKnownSubject(cmd.Subject) {
		return helper.JsonValidationError(c, map[string][]string{
			"assignment_subject": {"unknown subject"},
		})
	}

	m := &model.SubjectAssignmentModel{
		AssignmentTeacherID:    cmd.TeacherID,
		AssignmentSubject:      cmd.Subject,
		AssignmentClassSection: cmd.ClassSection,
		AssignmentYear:         cmd.Year,
	}
	if err := ctl.DB.WithContext(reqCtx(c)).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "assignment already exists")
		}
		log.Printf("[TEACHERS][ASSIGNMENT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save assignment")
	}
	return helper.JsonCreated(c, "assignment created", m)
}

func (ctl *TeacherController) CreateSlot(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}
	var cmd dto.CreateSlotCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	cmd.TeacherID = teacherID
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}
	if cmd.EndTime <= cmd.StartTime {
		return helper.JsonValidationError(c, map[string][]string{
			"slot_end_time": {"end time must be after start time"},
		})
	}

	m := &model.AvailabilitySlotModel{
		SlotTeacherID: cmd.TeacherID,
		SlotWeekday:   cmd.Weekday,
		SlotStartTime: cmd.StartTime,
		SlotEndTime:   cmd.EndTime,
	}
	if err := ctl.DB.WithContext(reqCtx(c)).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "slot already exists")
		}
		log.Printf("[TEACHERS][SLOT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save slot")
	}
	return helper.JsonCreated(c, "slot created", m)
}

func (ctl *TeacherController) ListAssignments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid teacher id")
	}
	var rows []model.SubjectAssignmentModel
	if err := ctl.DB.WithContext(reqCtx(c)).
		Where("assignment_teacher_id = ?", id).
		Order("assignment_year DESC, assignment_subject").
		Find(&rows).Error; err != nil {
		log.Printf("[TEACHERS][ASSIGNMENTS] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not list assignments")
	}
	return helper.JsonOK(c, "", rows)
}
