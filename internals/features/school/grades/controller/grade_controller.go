// file: internals/features/school/grades/controller/grade_controller.go
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

	dto "escola_backend/internals/features/school/grades/dto"
	model "escola_backend/internals/features/school/grades/model"
	studentModel "escola_backend/internals/features/school/students/model"
	helper "escola_backend/internals/helpers"
)

type GradeController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewGradeController(db *gorm.DB, v *validator.Validate) *GradeController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &GradeController{DB: db, Validate: v}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

/* ============================ CREATE ============================ */

func (ctl *GradeController) Create(c *fiber.Ctx) error {
	var cmd dto.CreateGradeCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}
	if !model.IsKnownSubject(cmd.Subject) {
		return helper.JsonValidationError(c, map[string][]string{
			"grade_subject": {"unknown subject"},
		})
	}
	date, err := time.Parse("2006-01-02", cmd.Date)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"grade_date": {"expected yyyy-mm-dd"},
		})
	}

	// Integrity holds even if a caller bypasses the form layer: the range
	// check runs again immediately before the write.
	value := dto.RoundValue(cmd.Value)
	if !dto.ValueInRange(value) {
		return helper.JsonValidationError(c, map[string][]string{
			"grade_value": {"value must be between 0 and 10"},
		})
	}

	var student studentModel.StudentModel
	if err := ctl.DB.WithContext(reqCtx(c)).First(&student, "student_id = ?", cmd.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load student")
	}

	m := &model.GradeModel{
		GradeStudentID: cmd.StudentID,
		GradeSubject:   cmd.Subject,
		GradeValue:     value,
		GradeTerm:      cmd.Term,
		GradeDate:      date,
		GradeNote:      cmd.Note,
	}
	if err := ctl.DB.WithContext(reqCtx(c)).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict,
				"a grade for this student, subject and term already exists")
		}
		log.Printf("[GRADES][CREATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save grade")
	}
	return helper.JsonCreated(c, "grade created", dto.FromModel(m))
}

/* ============================ UPDATE ============================ */

func (ctl *GradeController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid grade id")
	}
	var cmd dto.UpdateGradeCommand
	if err := c.BodyParser(&cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	cmd.GradeID = id
	if err := ctl.Validate.Struct(&cmd); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}
	date, err := time.Parse("2006-01-02", cmd.Date)
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"grade_date": {"expected yyyy-mm-dd"},
		})
	}
	value := dto.RoundValue(cmd.Value)
	if !dto.ValueInRange(value) {
		return helper.JsonValidationError(c, map[string][]string{
			"grade_value": {"value must be between 0 and 10"},
		})
	}

	var m model.GradeModel
	if err := ctl.DB.WithContext(reqCtx(c)).First(&m, "grade_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "grade not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load grade")
	}

	m.GradeValue = value
	m.GradeDate = date
	m.GradeNote = cmd.Note
	m.GradeUpdatedAt = time.Now()
	if err := ctl.DB.WithContext(reqCtx(c)).Save(&m).Error; err != nil {
		log.Printf("[GRADES][UPDATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save grade")
	}
	return helper.JsonUpdated(c, "grade updated", dto.FromModel(&m))
}

/* ============================ DELETE ============================ */

func (ctl *GradeController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid grade id")
	}
	res := ctl.DB.WithContext(reqCtx(c)).Delete(&model.GradeModel{}, "grade_id = ?", id)
	if res.Error != nil {
		log.Printf("[GRADES][DELETE] %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not delete grade")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "grade not found")
	}
	return helper.JsonDeleted(c, "grade deleted", fiber.Map{"grade_id": id})
}

/* ====================== GRADES BY STUDENT ====================== */

// ListByStudent is the JSON API consumed by the student detail view and
// the chatbot front-end: all grades of one student, term order.
func (ctl *GradeController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}
	var rows []model.GradeModel
	if err := ctl.DB.WithContext(reqCtx(c)).
		Where("grade_student_id = ?", studentID).
		Order("grade_subject, grade_term").
		Find(&rows).Error; err != nil {
		log.Printf("[GRADES][BY_STUDENT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load grades")
	}
	out := make([]dto.GradeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonOK(c, "", out)
}
