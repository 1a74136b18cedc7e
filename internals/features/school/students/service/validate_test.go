// file: internals/features/school/students/service/validate_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "escola_backend/internals/features/school/students/dto"
	helper "escola_backend/internals/helpers"
)

type fakeUniquenessStore struct {
	registryTaken bool
	emailTaken    bool
	cpfTaken      bool
}

func (f *fakeUniquenessStore) RegistryExists(context.Context, string, uuid.UUID) (bool, error) {
	return f.registryTaken, nil
}
func (f *fakeUniquenessStore) EmailExists(context.Context, string, uuid.UUID) (bool, error) {
	return f.emailTaken, nil
}
func (f *fakeUniquenessStore) ActiveCPFExists(context.Context, string, uuid.UUID) (bool, error) {
	return f.cpfTaken, nil
}

func newTestValidator(store UniquenessStore) *StudentValidator {
	if store == nil {
		store = &fakeUniquenessStore{}
	}
	return &StudentValidator{Validate: helper.NewValidator(), Store: store}
}

func validCreateCommand() *dto.CreateStudentCommand {
	birth := time.Now().AddDate(-10, 0, 0)
	cpf := "123.456.789-00"
	return &dto.CreateStudentCommand{
		Name:           "Ana Clara Lima",
		BirthDate:      &birth,
		CPF:            &cpf,
		RegistryNumber: "2026-0042",
		Level:          "fundamental",
		Shift:          "morning",
		GradeYear:      5,
		GuardianName:   "Paulo Lima",
		GuardianPhone:  "(11) 91234-5678",
	}
}

func TestValidateCreateAccepts(t *testing.T) {
	sv := newTestValidator(nil)
	assert.Nil(t, sv.ValidateCreate(context.Background(), validCreateCommand()))
}

func TestValidateCreateRejectsMalformedCPF(t *testing.T) {
	sv := newTestValidator(nil)
	cmd := validCreateCommand()
	bad := "12345678900"
	cmd.CPF = &bad

	errs := sv.ValidateCreate(context.Background(), cmd)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_cpf")
}

func TestValidateCreateRejectsMalformedPhone(t *testing.T) {
	sv := newTestValidator(nil)
	cmd := validCreateCommand()
	cmd.GuardianPhone = "11912345678"

	errs := sv.ValidateCreate(context.Background(), cmd)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_guardian_phone")
}

func TestValidateCreateRejectsDuplicateRegistry(t *testing.T) {
	sv := newTestValidator(&fakeUniquenessStore{registryTaken: true})
	errs := sv.ValidateCreate(context.Background(), validCreateCommand())
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_registry_number")
}

func TestValidateCreateRejectsActiveCPFDuplicate(t *testing.T) {
	sv := newTestValidator(&fakeUniquenessStore{cpfTaken: true})
	errs := sv.ValidateCreate(context.Background(), validCreateCommand())
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_cpf")
}

func TestValidateCreateCollectsAllErrors(t *testing.T) {
	sv := newTestValidator(&fakeUniquenessStore{registryTaken: true})
	cmd := validCreateCommand()
	bad := "999"
	cmd.CPF = &bad
	cmd.GuardianName = ""

	errs := sv.ValidateCreate(context.Background(), cmd)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_cpf")
	assert.Contains(t, errs, "student_guardian_name")
	assert.Contains(t, errs, "student_registry_number")
}

func TestCrossFieldAgeBounds(t *testing.T) {
	tooYoung := time.Now().AddDate(-3, 0, 0)
	tooOld := time.Now().AddDate(-25, 0, 0)
	fine := time.Now().AddDate(-12, 0, 0)

	assert.Contains(t, CrossFieldErrors(&tooYoung, "fundamental", "morning"), "student_birth_date")
	assert.Contains(t, CrossFieldErrors(&tooOld, "medio", "afternoon"), "student_birth_date")
	assert.Empty(t, CrossFieldErrors(&fine, "fundamental", "morning"))
	assert.Empty(t, CrossFieldErrors(nil, "fundamental", "morning"))
}

func TestCrossFieldInfantilRequiresMorning(t *testing.T) {
	errs := CrossFieldErrors(nil, "infantil", "afternoon")
	require.Contains(t, errs, "student_shift")

	assert.Empty(t, CrossFieldErrors(nil, "infantil", "morning"))
}

func TestValidateImportRowSkipsGuardianRequirement(t *testing.T) {
	sv := newTestValidator(nil)
	cmd := &dto.CreateStudentCommand{
		Name:           "Bruno Santos",
		RegistryNumber: "2026-0100",
		Level:          "medio",
		Shift:          "afternoon",
		GradeYear:      11,
	}
	assert.Nil(t, sv.ValidateImportRow(context.Background(), cmd))
}

func TestValidateImportRowStillChecksPresentFields(t *testing.T) {
	sv := newTestValidator(nil)
	badCPF := "111"
	cmd := &dto.CreateStudentCommand{
		Name:           "Bruno Santos",
		RegistryNumber: "2026-0100",
		Level:          "creche", // unknown level
		Shift:          "afternoon",
		GradeYear:      0,
		CPF:            &badCPF,
	}
	errs := sv.ValidateImportRow(context.Background(), cmd)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "student_level")
	assert.Contains(t, errs, "student_grade_year")
	assert.Contains(t, errs, "student_cpf")
}
