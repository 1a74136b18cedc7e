// file: internals/features/school/grades/dto/grade_dto_test.go
package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	model "escola_backend/internals/features/school/grades/model"
	helper "escola_backend/internals/helpers"
)

func TestValueInRangeBounds(t *testing.T) {
	assert.True(t, ValueInRange(0))
	assert.True(t, ValueInRange(10))
	assert.True(t, ValueInRange(6.75))
	assert.False(t, ValueInRange(-0.01))
	assert.False(t, ValueInRange(10.01))
}

func TestRoundValue(t *testing.T) {
	assert.Equal(t, 7.56, RoundValue(7.555))
	assert.Equal(t, 7.55, RoundValue(7.554))
	assert.Equal(t, 10.0, RoundValue(10.0))
	assert.Equal(t, 0.0, RoundValue(0.004))
}

func TestCreateGradeCommandValidation(t *testing.T) {
	v := helper.NewValidator()

	cmd := CreateGradeCommand{
		StudentID: uuid.New(),
		Subject:   model.SubjectMatematica,
		Value:     8.5,
		Term:      2,
		Date:      "2026-04-10",
	}
	assert.NoError(t, v.Struct(&cmd))

	cmd.Value = 10.5
	assert.Error(t, v.Struct(&cmd), "grades above 10 must be rejected")

	cmd.Value = -1
	assert.Error(t, v.Struct(&cmd), "negative grades must be rejected")

	cmd.Value = 0
	cmd.Term = 5
	assert.Error(t, v.Struct(&cmd), "terms run 1 through 4")
}

func TestFromModelFormatsDate(t *testing.T) {
	m := &model.GradeModel{
		GradeID:        uuid.New(),
		GradeStudentID: uuid.New(),
		GradeSubject:   model.SubjectPortugues,
		GradeValue:     6.0,
		GradeTerm:      1,
		GradeDate:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	resp := FromModel(m)
	assert.Equal(t, "2026-03-15", resp.GradeDate)
	assert.Equal(t, m.GradeValue, resp.GradeValue)
}
