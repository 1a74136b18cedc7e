// file: internals/features/school/students/service/validate.go
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
	helper "escola_backend/internals/helpers"
)

// UniquenessStore answers the identifier-uniqueness questions the
// validator asks. exclude skips the record's own row when editing.
type UniquenessStore interface {
	RegistryExists(ctx context.Context, registry string, exclude uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	// ActiveCPFExists is scoped to active students only: a deactivated
	// student may share a CPF with an active one.
	ActiveCPFExists(ctx context.Context, cpf string, exclude uuid.UUID) (bool, error)
}

type gormUniquenessStore struct{ db *gorm.DB }

func NewUniquenessStore(db *gorm.DB) UniquenessStore { return &gormUniquenessStore{db: db} }

func (s *gormUniquenessStore) RegistryExists(ctx context.Context, registry string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_registry_number = ?", registry)
	if exclude != uuid.Nil {
		q = q.Where("student_id <> ?", exclude)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *gormUniquenessStore) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("student_id <> ?", exclude)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *gormUniquenessStore) ActiveCPFExists(ctx context.Context, cpf string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&model.StudentModel{}).
		Where("student_cpf = ? AND student_is_active = ?", cpf, true)
	if exclude != uuid.Nil {
		q = q.Where("student_id <> ?", exclude)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// StudentValidator runs field-level tags, cross-field rules, and
// uniqueness checks. It returns either nil (accepted) or the full set of
// field-scoped errors; it never partially applies anything.
type StudentValidator struct {
	Validate *validator.Validate
	Store    UniquenessStore
}

func NewStudentValidator(db *gorm.DB, v *validator.Validate) *StudentValidator {
	if v == nil {
		v = helper.NewValidator()
	}
	return &StudentValidator{Validate: v, Store: NewUniquenessStore(db)}
}

func (sv *StudentValidator) ValidateCreate(ctx context.Context, cmd *dto.CreateStudentCommand) map[string][]string {
	errs := map[string][]string{}
	if err := sv.Validate.Struct(cmd); err != nil {
		errs = helper.ValidatorErrors(err)
	}
	mergeFieldErrors(errs, CrossFieldErrors(cmd.BirthDate, cmd.Level, cmd.Shift))
	sv.checkUniqueness(ctx, errs, cmd.RegistryNumber, cmd.Email, cmd.CPF, uuid.Nil)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (sv *StudentValidator) ValidateUpdate(ctx context.Context, cmd *dto.UpdateStudentCommand) map[string][]string {
	errs := map[string][]string{}
	if err := sv.Validate.Struct(cmd); err != nil {
		errs = helper.ValidatorErrors(err)
	}
	mergeFieldErrors(errs, CrossFieldErrors(cmd.BirthDate, cmd.Level, cmd.Shift))
	sv.checkUniqueness(ctx, errs, cmd.RegistryNumber, cmd.Email, cmd.CPF, cmd.StudentID)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateImportRow is the relaxed variant used by the spreadsheet
// import: only the import's required columns are mandatory, and the
// format/cross-field/uniqueness rules fire just for fields that are
// present.
func (sv *StudentValidator) ValidateImportRow(ctx context.Context, cmd *dto.CreateStudentCommand) map[string][]string {
	errs := map[string][]string{}
	if cmd.Level != model.LevelInfantil && cmd.Level != model.LevelFundamental && cmd.Level != model.LevelMedio {
		errs["student_level"] = append(errs["student_level"], "must be one of: infantil fundamental medio")
	}
	if cmd.Shift != model.ShiftMorning && cmd.Shift != model.ShiftAfternoon {
		errs["student_shift"] = append(errs["student_shift"], "must be one of: morning afternoon")
	}
	if cmd.GradeYear < 1 || cmd.GradeYear > 12 {
		errs["student_grade_year"] = append(errs["student_grade_year"], "must be between 1 and 12")
	}
	if cmd.CPF != nil && *cmd.CPF != "" && !helper.IsValidCPF(*cmd.CPF) {
		errs["student_cpf"] = append(errs["student_cpf"], "must match the pattern DDD.DDD.DDD-DD")
	}
	if cmd.Phone != "" && !helper.IsValidBRPhone(cmd.Phone) {
		errs["student_phone"] = append(errs["student_phone"], "must match the pattern (DD) DDDDD-DDDD")
	}
	if cmd.GuardianPhone != "" && !helper.IsValidBRPhone(cmd.GuardianPhone) {
		errs["student_guardian_phone"] = append(errs["student_guardian_phone"], "must match the pattern (DD) DDDDD-DDDD")
	}
	mergeFieldErrors(errs, CrossFieldErrors(cmd.BirthDate, cmd.Level, cmd.Shift))
	sv.checkUniqueness(ctx, errs, cmd.RegistryNumber, cmd.Email, cmd.CPF, uuid.Nil)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CrossFieldErrors applies the rules that only fire when the relevant
// fields are present: age bounds for an optional birth date, and the
// early-years level requiring the morning shift.
func CrossFieldErrors(birthDate *time.Time, level, shift string) map[string][]string {
	errs := map[string][]string{}
	if birthDate != nil {
		age := model.AgeAt(*birthDate, time.Now())
		if age < model.StudentAgeMin || age > model.StudentAgeMax {
			errs["student_birth_date"] = append(errs["student_birth_date"],
				"age must be between 5 and 18 years")
		}
	}
	if level == model.LevelInfantil && shift != model.ShiftMorning {
		errs["student_shift"] = append(errs["student_shift"],
			"infantil level requires the morning shift")
	}
	return errs
}

func (sv *StudentValidator) checkUniqueness(ctx context.Context, errs map[string][]string, registry string, email, cpf *string, exclude uuid.UUID) {
	if registry != "" {
		if exists, err := sv.Store.RegistryExists(ctx, registry, exclude); err == nil && exists {
			errs["student_registry_number"] = append(errs["student_registry_number"],
				"registry number already in use")
		}
	}
	if email != nil && *email != "" {
		if exists, err := sv.Store.EmailExists(ctx, *email, exclude); err == nil && exists {
			errs["student_email"] = append(errs["student_email"],
				"email already in use")
		}
	}
	if cpf != nil && *cpf != "" {
		if exists, err := sv.Store.ActiveCPFExists(ctx, *cpf, exclude); err == nil && exists {
			errs["student_cpf"] = append(errs["student_cpf"],
				"CPF already in use by an active student")
		}
	}
}

func mergeFieldErrors(dst, src map[string][]string) {
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
}
