// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
	service "escola_backend/internals/features/school/students/service"
	helper "escola_backend/internals/helpers"
)

/* =======================================================
   CONTROLLER
   ======================================================= */

type StudentController struct {
	DB        *gorm.DB
	Validate  *validator.Validate
	Validator *service.StudentValidator
	Writer    service.StudentWriter
	Listing   *service.ListingEngine
	Importer  *service.StudentImporter
}

func NewStudentController(db *gorm.DB, v *validator.Validate, writer service.StudentWriter, listing *service.ListingEngine) *StudentController {
	if v == nil {
		v = helper.NewValidator()
	}
	sv := service.NewStudentValidator(db, v)
	return &StudentController{
		DB:        db,
		Validate:  v,
		Validator: sv,
		Writer:    writer,
		Listing:   listing,
		Importer:  service.NewStudentImporter(sv, writer),
	}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

/* ============================ CREATE ============================ */

func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var cmd dto.CreateStudentCommand
	if err := ctl.parseCreatePayload(c, &cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if fieldErrs := ctl.Validator.ValidateCreate(reqCtx(c), &cmd); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m, photo, err := ctl.Writer.Create(reqCtx(c), &cmd)
	if err != nil {
		return ctl.writeError(c, err)
	}

	resp := dto.FromModel(m)
	resp.PhotoWarning = photo.Warning()
	return helper.JsonCreated(c, "student created", resp)
}

/* ============================ UPDATE ============================ */

func (ctl *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var cmd dto.UpdateStudentCommand
	cmd.StudentID = id
	if err := ctl.parseUpdatePayload(c, &cmd); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if fieldErrs := ctl.Validator.ValidateUpdate(reqCtx(c), &cmd); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	m, photo, err := ctl.Writer.Update(reqCtx(c), &cmd)
	if err != nil {
		return ctl.writeError(c, err)
	}

	resp := dto.FromModel(m)
	resp.PhotoWarning = photo.Warning()
	return helper.JsonUpdated(c, "student updated", resp)
}

/* ============================ DELETE ============================ */

func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}
	if err := ctl.Writer.Delete(reqCtx(c), id); err != nil {
		return ctl.writeError(c, err)
	}
	return helper.JsonDeleted(c, "student deleted", fiber.Map{"student_id": id})
}

/* ============================ DETAIL ============================ */

func (ctl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student id")
	}
	var m model.StudentModel
	if err := ctl.DB.WithContext(reqCtx(c)).First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		log.Printf("[STUDENTS][DETAIL] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load student")
	}
	return helper.JsonOK(c, "", dto.FromModel(&m))
}

/* ============================ helpers ============================ */

// writeError maps writer failures onto the envelope: not-found is a soft
// user-facing miss, a failed backend write is the single fatal case.
func (ctl *StudentController) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "student not found")
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "duplicate identifier")
	default:
		log.Printf("[STUDENTS][ERROR] %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "the operation could not be completed")
	}
}

func (ctl *StudentController) parseCreatePayload(c *fiber.Ctx, cmd *dto.CreateStudentCommand) error {
	if isMultipart(c) {
		fillCreateFromForm(c, cmd)
	} else if err := c.BodyParser(cmd); err != nil {
		return errors.New("malformed request body")
	}
	if fh, err := c.FormFile("photo"); err == nil && fh != nil && fh.Size > 0 {
		cmd.PhotoFile = fh
	}
	return nil
}

func (ctl *StudentController) parseUpdatePayload(c *fiber.Ctx, cmd *dto.UpdateStudentCommand) error {
	if isMultipart(c) {
		fillUpdateFromForm(c, cmd)
	} else if err := c.BodyParser(cmd); err != nil {
		return errors.New("malformed request body")
	}
	if fh, err := c.FormFile("photo"); err == nil && fh != nil && fh.Size > 0 {
		cmd.PhotoFile = fh
	}
	return nil
}

func isMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

func fillCreateFromForm(c *fiber.Ctx, cmd *dto.CreateStudentCommand) {
	cmd.Name = strings.TrimSpace(c.FormValue("student_name"))
	cmd.RegistryNumber = strings.TrimSpace(c.FormValue("student_registry_number"))
	cmd.Level = strings.ToLower(strings.TrimSpace(c.FormValue("student_level")))
	cmd.Shift = strings.ToLower(strings.TrimSpace(c.FormValue("student_shift")))
	cmd.ClassSection = strings.TrimSpace(c.FormValue("student_class_section"))
	cmd.Phone = strings.TrimSpace(c.FormValue("student_phone"))
	cmd.Address = strings.TrimSpace(c.FormValue("student_address"))
	cmd.GuardianName = strings.TrimSpace(c.FormValue("student_guardian_name"))
	cmd.GuardianPhone = strings.TrimSpace(c.FormValue("student_guardian_phone"))
	cmd.PhotoDataURL = strings.TrimSpace(c.FormValue("student_photo_data_url"))

	if v := strings.TrimSpace(c.FormValue("student_grade_year")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cmd.GradeYear = n
		}
	}
	if v := strings.TrimSpace(c.FormValue("student_birth_date")); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			cmd.BirthDate = &t
		}
	}
	if v := strings.TrimSpace(c.FormValue("student_cpf")); v != "" {
		cmd.CPF = &v
	}
	if v := strings.TrimSpace(c.FormValue("student_email")); v != "" {
		cmd.Email = &v
	}
	if v := strings.TrimSpace(c.FormValue("student_guardian2_name")); v != "" {
		cmd.Guardian2Name = &v
	}
	if v := strings.TrimSpace(c.FormValue("student_guardian2_phone")); v != "" {
		cmd.Guardian2Phone = &v
	}
	if v := strings.TrimSpace(c.FormValue("student_extra")); v != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(v), &extra); err == nil {
			cmd.Extra = extra
		}
	}
	if v := c.FormValue("student_is_active"); v != "" {
		b := parseBool(v, true)
		cmd.IsActive = &b
	}
}

func fillUpdateFromForm(c *fiber.Ctx, cmd *dto.UpdateStudentCommand) {
	var create dto.CreateStudentCommand
	fillCreateFromForm(c, &create)
	cmd.Name = create.Name
	cmd.BirthDate = create.BirthDate
	cmd.CPF = create.CPF
	cmd.RegistryNumber = create.RegistryNumber
	cmd.Level = create.Level
	cmd.Shift = create.Shift
	cmd.GradeYear = create.GradeYear
	cmd.ClassSection = create.ClassSection
	cmd.Email = create.Email
	cmd.Phone = create.Phone
	cmd.Address = create.Address
	cmd.GuardianName = create.GuardianName
	cmd.GuardianPhone = create.GuardianPhone
	cmd.Guardian2Name = create.Guardian2Name
	cmd.Guardian2Phone = create.Guardian2Phone
	cmd.Extra = create.Extra
	cmd.IsActive = create.IsActive
	cmd.PhotoDataURL = create.PhotoDataURL
	cmd.ClearPhoto = parseBool(c.FormValue("student_clear_photo"), false)
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return def
	}
}
