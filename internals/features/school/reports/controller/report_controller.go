// file: internals/features/school/reports/controller/report_controller.go
package controller

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	service "escola_backend/internals/features/school/reports/service"
	helper "escola_backend/internals/helpers"
)

type ReportController struct {
	Reports *service.ReportService
}

func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func reqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}

func (ctl *ReportController) CohortAverages(c *fiber.Ctx) error {
	table, err := ctl.Reports.CohortAverages(reqCtx(c))
	if err != nil {
		log.Printf("[REPORTS][COHORT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not build report")
	}
	return ctl.respond(c, table)
}

func (ctl *ReportController) LowGrades(c *fiber.Ctx) error {
	table, err := ctl.Reports.LowGrades(reqCtx(c))
	if err != nil {
		log.Printf("[REPORTS][LOW_GRADES] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not build report")
	}
	return ctl.respond(c, table)
}

// SubjectAverages is the JSON API endpoint (also consumed by the chatbot
// front-end).
func (ctl *ReportController) SubjectAverages(c *fiber.Ctx) error {
	rows, err := ctl.Reports.SubjectAverages(reqCtx(c))
	if err != nil {
		log.Printf("[REPORTS][SUBJECT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not compute averages")
	}
	return helper.JsonOK(c, "", rows)
}

// respond returns JSON by default; ?format=xlsx downloads the workbook.
func (ctl *ReportController) respond(c *fiber.Ctx, table *service.ReportTable) error {
	if c.Query("format") != "xlsx" {
		return helper.JsonOK(c, "", table)
	}
	f, err := service.ToWorkbook(table)
	if err != nil {
		log.Printf("[REPORTS][XLSX] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not render workbook")
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "could not render workbook")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="report.xlsx"`)
	return c.Send(buf.Bytes())
}
