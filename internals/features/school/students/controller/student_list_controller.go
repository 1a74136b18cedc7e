// file: internals/features/school/students/controller/student_list_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	dto "escola_backend/internals/features/school/students/dto"
	helper "escola_backend/internals/helpers"
)

// List serves the student directory. A full-page request returns the
// items plus pagination; a partial request (?partial=1, the "load more"
// mode) additionally returns the ordered item ids so the client can
// detect duplicates on append without trusting server state.
func (ctl *StudentController) List(c *fiber.Ctx) error {
	filter := dto.StudentListFilter{
		Level:  strings.ToLower(strings.TrimSpace(c.Query("level"))),
		Shift:  strings.ToLower(strings.TrimSpace(c.Query("shift"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if v := strings.TrimSpace(c.Query("grade_year")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.GradeYear = n
		}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	partial := parseBool(c.Query("partial"), false)

	result := ctl.Listing.List(reqCtx(c), filter, page)

	pagination := helper.BuildPaginationFromPage(result.Total, result.Page, ctl.Listing.PageSize)
	pagination.Count = len(result.Items)
	if partial {
		pagination.ItemIDs = result.ItemIDs
	}
	return helper.JsonList(c, "", result.Items, &pagination)
}
