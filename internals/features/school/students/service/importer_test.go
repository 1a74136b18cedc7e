// file: internals/features/school/students/service/importer_test.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
)

type fakeStudentWriter struct {
	created  []*dto.CreateStudentCommand
	failWith error
}

func (f *fakeStudentWriter) Create(_ context.Context, cmd *dto.CreateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	if f.failWith != nil {
		return nil, PhotoOutcome{Skipped: true}, f.failWith
	}
	f.created = append(f.created, cmd)
	m := cmd.ToModel()
	m.StudentID = uuid.New()
	return m, PhotoOutcome{Skipped: true}, nil
}

func (f *fakeStudentWriter) Update(context.Context, *dto.UpdateStudentCommand) (*model.StudentModel, PhotoOutcome, error) {
	return nil, PhotoOutcome{Skipped: true}, errors.New("not implemented")
}

func (f *fakeStudentWriter) Delete(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

// workbook renders header + rows into xlsx bytes.
func workbook(t *testing.T, header []string, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	writeRow := func(rowNum int, cells []string) {
		for i, v := range cells {
			col, err := excelize.ColumnNumberToName(i + 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowNum), v))
		}
	}
	writeRow(1, header)
	for i, r := range rows {
		writeRow(i+2, r)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return bytes.NewReader(buf.Bytes())
}

func newTestImporter(w StudentWriter) *StudentImporter {
	return NewStudentImporter(newTestValidator(nil), w)
}

func TestImportRejectsMissingRequiredColumns(t *testing.T) {
	w := &fakeStudentWriter{}
	imp := newTestImporter(w)

	// "level" is absent from the header.
	r := workbook(t,
		[]string{"name", "registry_number", "shift", "grade_year"},
		[][]string{{"Ana Lima", "2026-0001", "morning", "5"}},
	)

	_, err := imp.Import(context.Background(), r)
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"level"}, missing.Columns)
	assert.Empty(t, w.created, "a rejected file must import nothing")
}

func TestImportAcceptsValidRows(t *testing.T) {
	w := &fakeStudentWriter{}
	imp := newTestImporter(w)

	r := workbook(t,
		[]string{"name", "registry_number", "level", "shift", "grade_year", "birth_date", "cpf"},
		[][]string{
			{"Ana Lima", "2026-0001", "fundamental", "morning", "5", "15/03/2016", "123.456.789-00"},
			{"Bruno Souza", "2026-0002", "medio", "afternoon", "11", "2009-08-20", ""},
		},
	)

	res, err := imp.Import(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.RowErrors)
	require.Len(t, w.created, 2)
	assert.Equal(t, "Ana Lima", w.created[0].Name)
	require.NotNil(t, w.created[0].BirthDate)
	assert.Equal(t, "2016-03-15", w.created[0].BirthDate.Format("2006-01-02"))
	require.NotNil(t, w.created[1].BirthDate)
	assert.Equal(t, "2009-08-20", w.created[1].BirthDate.Format("2006-01-02"))
}

func TestImportCollectsRowErrorsAndContinues(t *testing.T) {
	w := &fakeStudentWriter{}
	imp := newTestImporter(w)

	r := workbook(t,
		[]string{"name", "registry_number", "level", "shift", "grade_year"},
		[][]string{
			{"Ana Lima", "2026-0001", "fundamental", "morning", "5"},
			{"Bruno Souza", "2026-0002", "medio", "afternoon", ""},     // missing grade_year value
			{"Carla Dias", "2026-0003", "creche", "morning", "2"},      // unknown level
			{"Davi Rocha", "2026-0004", "fundamental", "morning", "7"}, // fine
		},
	)

	res, err := imp.Import(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.RowErrors, 2)

	assert.Equal(t, 3, res.RowErrors[0].Row)
	assert.Contains(t, res.RowErrors[0].Message, "grade_year")
	assert.Equal(t, 4, res.RowErrors[1].Row)
	assert.Contains(t, res.RowErrors[1].Fields, "student_level")
}

func TestImportSkipsBlankRows(t *testing.T) {
	w := &fakeStudentWriter{}
	imp := newTestImporter(w)

	r := workbook(t,
		[]string{"name", "registry_number", "level", "shift", "grade_year"},
		[][]string{
			{"Ana Lima", "2026-0001", "fundamental", "morning", "5"},
			{"", "", "", "", ""},
			{"Bruno Souza", "2026-0002", "medio", "afternoon", "11"},
		},
	)

	res, err := imp.Import(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.RowErrors)
}

func TestImportReportsWriterFailuresPerRow(t *testing.T) {
	w := &fakeStudentWriter{failWith: errors.New("backend write failed: down")}
	imp := newTestImporter(w)

	r := workbook(t,
		[]string{"name", "registry_number", "level", "shift", "grade_year"},
		[][]string{{"Ana Lima", "2026-0001", "fundamental", "morning", "5"}},
	)

	res, err := imp.Import(context.Background(), r)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	require.Len(t, res.RowErrors, 1)
	assert.Contains(t, res.RowErrors[0].Message, "backend write failed")
}

func TestBuildTemplateHasRequiredColumnsFirst(t *testing.T) {
	f, err := BuildTemplate()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	header := rows[0]
	require.GreaterOrEqual(t, len(header), len(RequiredImportColumns))
	assert.Equal(t, RequiredImportColumns, header[:len(RequiredImportColumns)])
}
