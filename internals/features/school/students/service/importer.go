// file: internals/features/school/students/service/importer.go
package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	dto "escola_backend/internals/features/school/students/dto"
)

// Spreadsheet import contract: these columns must all be present or the
// whole file is rejected; everything else is optional.
var RequiredImportColumns = []string{"name", "registry_number", "level", "shift", "grade_year"}

var OptionalImportColumns = []string{
	"birth_date", "cpf", "class_section", "email", "phone", "address",
	"guardian_name", "guardian_phone", "guardian2_name", "guardian2_phone",
}

// MissingColumnsError rejects a workbook wholesale, naming what is absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

type RowError struct {
	Row     int                 `json:"row"` // 1-based sheet row
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ImportResult reports partial success: imported count plus every
// per-row failure. Rows failing never abort the rest of the file.
type ImportResult struct {
	Imported  int        `json:"imported"`
	RowErrors []RowError `json:"row_errors"`
}

// StudentImporter parses an xlsx workbook and feeds each row through the
// same validate-then-write path as the create endpoint.
type StudentImporter struct {
	Validator *StudentValidator
	Writer    StudentWriter
}

func NewStudentImporter(v *StudentValidator, w StudentWriter) *StudentImporter {
	return &StudentImporter{Validator: v, Writer: w}
}

func (imp *StudentImporter) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: append([]string(nil), RequiredImportColumns...)}
	}

	colIdx, missing := headerIndex(rows[0])
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	result := &ImportResult{RowErrors: []RowError{}}
	for i, row := range rows[1:] {
		sheetRow := i + 2 // 1-based, after the header
		if isBlankRow(row) {
			continue
		}
		cmd, rowErr := commandFromRow(row, colIdx, sheetRow)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			continue
		}
		if fieldErrs := imp.Validator.ValidateImportRow(ctx, cmd); fieldErrs != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				Row:     sheetRow,
				Message: "validation failed",
				Fields:  fieldErrs,
			})
			continue
		}
		if _, _, err := imp.Writer.Create(ctx, cmd); err != nil {
			result.RowErrors = append(result.RowErrors, RowError{
				Row:     sheetRow,
				Message: err.Error(),
			})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// BuildTemplate produces the downloadable import template: one header row
// with required columns first.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, RequiredImportColumns...), OptionalImportColumns...)
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	}
	return f, nil
}

func headerIndex(header []string) (map[string]int, []string) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, req := range RequiredImportColumns {
		if _, ok := idx[req]; !ok {
			missing = append(missing, req)
		}
	}
	sort.Strings(missing)
	return idx, missing
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func commandFromRow(row []string, idx map[string]int, sheetRow int) (*dto.CreateStudentCommand, *RowError) {
	missingValue := func(col string) *RowError {
		return &RowError{Row: sheetRow, Message: fmt.Sprintf("missing value for required column %q", col)}
	}

	cmd := &dto.CreateStudentCommand{}
	if cmd.Name = cell(row, idx, "name"); cmd.Name == "" {
		return nil, missingValue("name")
	}
	if cmd.RegistryNumber = cell(row, idx, "registry_number"); cmd.RegistryNumber == "" {
		return nil, missingValue("registry_number")
	}
	if cmd.Level = strings.ToLower(cell(row, idx, "level")); cmd.Level == "" {
		return nil, missingValue("level")
	}
	if cmd.Shift = strings.ToLower(cell(row, idx, "shift")); cmd.Shift == "" {
		return nil, missingValue("shift")
	}
	gy := cell(row, idx, "grade_year")
	if gy == "" {
		return nil, missingValue("grade_year")
	}
	n, err := strconv.Atoi(gy)
	if err != nil {
		return nil, &RowError{Row: sheetRow, Message: fmt.Sprintf("grade_year %q is not a number", gy)}
	}
	cmd.GradeYear = n

	if v := cell(row, idx, "birth_date"); v != "" {
		t, err := parseImportDate(v)
		if err != nil {
			return nil, &RowError{Row: sheetRow, Message: fmt.Sprintf("birth_date %q: expected dd/mm/yyyy or yyyy-mm-dd", v)}
		}
		cmd.BirthDate = &t
	}
	if v := cell(row, idx, "cpf"); v != "" {
		cmd.CPF = &v
	}
	cmd.ClassSection = cell(row, idx, "class_section")
	if v := cell(row, idx, "email"); v != "" {
		cmd.Email = &v
	}
	cmd.Phone = cell(row, idx, "phone")
	cmd.Address = cell(row, idx, "address")
	cmd.GuardianName = cell(row, idx, "guardian_name")
	cmd.GuardianPhone = cell(row, idx, "guardian_phone")
	if v := cell(row, idx, "guardian2_name"); v != "" {
		cmd.Guardian2Name = &v
	}
	if v := cell(row, idx, "guardian2_phone"); v != "" {
		cmd.Guardian2Phone = &v
	}
	return cmd, nil
}

func parseImportDate(s string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
