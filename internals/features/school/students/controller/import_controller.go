// file: internals/features/school/students/controller/import_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	service "escola_backend/internals/features/school/students/service"
	helper "escola_backend/internals/helpers"
)

// Import accepts an xlsx upload under the "file" field. Missing required
// columns reject the whole file; row failures are collected and reported
// next to the imported count — partial success is the designed outcome.
func (ctl *StudentController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "spreadsheet file is required (field \"file\")")
	}
	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "could not open uploaded file")
	}
	defer src.Close()

	result, err := ctl.Importer.Import(reqCtx(c), src)
	if err != nil {
		var missing *service.MissingColumnsError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success":         false,
				"message":         missing.Error(),
				"error_code":      "MISSING_COLUMNS",
				"missing_columns": missing.Columns,
			})
		}
		log.Printf("[STUDENTS][IMPORT] %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, "could not read spreadsheet")
	}

	return helper.JsonOK(c, "import finished", result)
}

// Template streams the empty import template workbook.
func (ctl *StudentController) Template(c *fiber.Ctx) error {
	f, err := service.BuildTemplate()
	if err != nil {
		log.Printf("[STUDENTS][TEMPLATE] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not build template")
	}
	defer f.Close()

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="students_import_template.xlsx"`)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not render template")
	}
	return c.Send(buf.Bytes())
}
