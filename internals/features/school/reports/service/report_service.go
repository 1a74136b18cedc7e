// file: internals/features/school/reports/service/report_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	gradeModel "escola_backend/internals/features/school/grades/model"
)

// ReportTable is what the document renderers consume: column headers and
// rows of display-formatted strings. Formatting happens here so the
// renderer stays format-agnostic.
type ReportTable struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ReportService computes read-only grouped aggregates. No transaction is
// needed: every query is a single consistent read.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

/* ====================== COHORT AVERAGES ====================== */

type cohortAvgRow struct {
	GradeYear int
	Average   float64
	Students  int64
}

// CohortAverages: average grade and headcount per cohort (grade-year).
func (s *ReportService) CohortAverages(ctx context.Context) (*ReportTable, error) {
	var rows []cohortAvgRow
	err := s.DB.WithContext(ctx).Raw(`
		SELECT st.student_grade_year        AS grade_year,
		       COALESCE(AVG(g.grade_value), 0) AS average,
		       COUNT(DISTINCT st.student_id)   AS students
		FROM students st
		LEFT JOIN grades g ON g.grade_student_id = st.student_id
		WHERE st.student_deleted_at IS NULL AND st.student_is_active = TRUE
		GROUP BY st.student_grade_year
		ORDER BY st.student_grade_year`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("cohort averages: %w", err)
	}

	table := &ReportTable{
		Title:   "Average grade per cohort",
		Headers: []string{"Cohort", "Average", "Students"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("Year %d", r.GradeYear),
			FormatGrade(r.Average),
			fmt.Sprintf("%d", r.Students),
		})
	}
	return table, nil
}

/* ====================== LOW GRADES ====================== */

type lowGradeRow struct {
	StudentName    string
	RegistryNumber string
	Subject        string
	Term           int
	Value          float64
	Date           time.Time
}

// LowGrades lists every grade below the passing threshold (6.0).
func (s *ReportService) LowGrades(ctx context.Context) (*ReportTable, error) {
	var rows []lowGradeRow
	err := s.DB.WithContext(ctx).Raw(`
		SELECT st.student_name            AS student_name,
		       st.student_registry_number AS registry_number,
		       g.grade_subject            AS subject,
		       g.grade_term               AS term,
		       g.grade_value              AS value,
		       g.grade_date               AS date
		FROM grades g
		JOIN students st ON st.student_id = g.grade_student_id
		WHERE st.student_deleted_at IS NULL AND g.grade_value < ?
		ORDER BY st.student_name, g.grade_subject, g.grade_term`,
		gradeModel.PassingThreshold).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("low grades: %w", err)
	}

	table := &ReportTable{
		Title:   "Grades below 6.0",
		Headers: []string{"Student", "Registry", "Subject", "Term", "Grade", "Date"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.StudentName,
			r.RegistryNumber,
			r.Subject,
			fmt.Sprintf("%d", r.Term),
			FormatGrade(r.Value),
			FormatDate(r.Date),
		})
	}
	return table, nil
}

/* ====================== SUBJECT AVERAGES ====================== */

type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// SubjectAverages feeds the per-subject averages JSON endpoint.
func (s *ReportService) SubjectAverages(ctx context.Context) ([]SubjectAverage, error) {
	var rows []SubjectAverage
	err := s.DB.WithContext(ctx).Raw(`
		SELECT g.grade_subject AS subject,
		       AVG(g.grade_value) AS average,
		       COUNT(*) AS count
		FROM grades g
		JOIN students st ON st.student_id = g.grade_student_id
		WHERE st.student_deleted_at IS NULL
		GROUP BY g.grade_subject
		ORDER BY g.grade_subject`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("subject averages: %w", err)
	}
	return rows, nil
}

/* ====================== FORMATTING ====================== */

// FormatGrade renders a grade with two-decimal precision.
func FormatGrade(v float64) string { return fmt.Sprintf("%.2f", v) }

// FormatDate renders the localized dd/mm/yyyy display format.
func FormatDate(t time.Time) string { return t.Format("02/01/2006") }

/* ====================== XLSX EXPORT ====================== */

// ToWorkbook renders a table into an xlsx workbook for download.
func ToWorkbook(table *ReportTable) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range table.Headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			return nil, err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err == nil && len(table.Headers) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
		_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
	}

	for r, row := range table.Rows {
		for cIdx, cell := range row {
			col, err := excelize.ColumnNumberToName(cIdx + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, r+2), cell); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
