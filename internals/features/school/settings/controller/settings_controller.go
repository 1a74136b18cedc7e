// file: internals/features/school/settings/controller/settings_controller.go
package controller

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	service "escola_backend/internals/features/school/settings/service"
	helper "escola_backend/internals/helpers"
)

type SettingsController struct {
	Settings *service.Service
	Validate *validator.Validate
}

func NewSettingsController(settings *service.Service, v *validator.Validate) *SettingsController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &SettingsController{Settings: settings, Validate: v}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

func (ctl *SettingsController) Get(c *fiber.Ctx) error {
	row, err := ctl.Settings.GetOrInit(reqCtx(c))
	if err != nil {
		log.Printf("[SETTINGS][GET] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not load settings")
	}
	return helper.JsonOK(c, "", row)
}

type updateSettingsRequest struct {
	SchoolName   string `json:"setting_school_name"   validate:"required,min=2,max=120"`
	ContactEmail string `json:"setting_contact_email" validate:"required,email"`
	SMTPHost     string `json:"setting_smtp_host"     validate:"omitempty,max=120"`
	SMTPPort     int    `json:"setting_smtp_port"     validate:"omitempty,min=1,max=65535"`
}

func (ctl *SettingsController) Update(c *fiber.Ctx) error {
	var req updateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrors(err))
	}

	row, err := ctl.Settings.Update(reqCtx(c), req.SchoolName, req.ContactEmail, req.SMTPHost, req.SMTPPort)
	if err != nil {
		log.Printf("[SETTINGS][UPDATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not save settings")
	}
	return helper.JsonUpdated(c, "settings updated", row)
}
