// file: internals/features/school/students/service/store.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escola_backend/internals/features/school/students/dto"
	model "escola_backend/internals/features/school/students/model"
)

// StudentStore is the listing engine's view of the record store. The
// distinct capability is an explicit query answered once at construction,
// not discovered by catching failures at run time.
type StudentStore interface {
	// SupportsDistinctOn reports whether the store can return one row per
	// unique identity natively (Postgres DISTINCT ON).
	SupportsDistinctOn() bool

	// CountDistinct counts matching rows using the native distinct path.
	CountDistinct(ctx context.Context, f dto.StudentListFilter) (int64, error)

	// DistinctPage returns one page of distinct items ordered by identity.
	DistinctPage(ctx context.Context, f dto.StudentListFilter, limit, offset int) ([]dto.StudentListItem, error)

	// FilteredIDs returns every matching identity in the store's listing
	// order. The sequence may contain duplicate identities.
	FilteredIDs(ctx context.Context, f dto.StudentListFilter) ([]uuid.UUID, error)

	// ItemsByIDs returns listing items for ids, in the order given.
	ItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]dto.StudentListItem, error)
}

// Listing projection: only the columns the directory view needs.
const listColumns = "student_id, student_name, student_registry_number, student_level, student_shift, student_grade_year, student_photo_url, student_photo_path"

type listRow struct {
	StudentID             uuid.UUID
	StudentName           string
	StudentRegistryNumber string
	StudentLevel          string
	StudentShift          string
	StudentGradeYear      int
	StudentPhotoURL       *string
	StudentPhotoPath      *string
}

func (r listRow) toItem() dto.StudentListItem {
	item := dto.StudentListItem{
		StudentID:             r.StudentID,
		StudentName:           r.StudentName,
		StudentRegistryNumber: r.StudentRegistryNumber,
		StudentLevel:          r.StudentLevel,
		StudentShift:          r.StudentShift,
		StudentGradeYear:      r.StudentGradeYear,
	}
	if r.StudentPhotoURL != nil && *r.StudentPhotoURL != "" {
		item.StudentPhoto = *r.StudentPhotoURL
	} else if r.StudentPhotoPath != nil {
		item.StudentPhoto = *r.StudentPhotoPath
	}
	return item
}

type gormStudentStore struct {
	db         *gorm.DB
	distinctOn bool
}

// NewStudentStore decides the distinct capability once, by driver.
func NewStudentStore(db *gorm.DB) StudentStore {
	return &gormStudentStore{
		db:         db,
		distinctOn: db.Dialector.Name() == "postgres",
	}
}

func (s *gormStudentStore) SupportsDistinctOn() bool { return s.distinctOn }

// applyFilter builds the conjunction of placement filters plus the
// free-text disjunction over name / registry / CPF. CPF matching skips
// rows with an absent or empty CPF.
func (s *gormStudentStore) applyFilter(q *gorm.DB, f dto.StudentListFilter) *gorm.DB {
	if f.Level != "" {
		q = q.Where("student_level = ?", f.Level)
	}
	if f.Shift != "" {
		q = q.Where("student_shift = ?", f.Shift)
	}
	if f.GradeYear > 0 {
		q = q.Where("student_grade_year = ?", f.GradeYear)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"student_name ILIKE ? OR student_registry_number ILIKE ? OR (student_cpf IS NOT NULL AND student_cpf <> '' AND student_cpf ILIKE ?)",
			like, like, like,
		)
	}
	return q
}

func (s *gormStudentStore) base(ctx context.Context, f dto.StudentListFilter) *gorm.DB {
	return s.applyFilter(s.db.WithContext(ctx).Model(&model.StudentModel{}), f)
}

func (s *gormStudentStore) CountDistinct(ctx context.Context, f dto.StudentListFilter) (int64, error) {
	var n int64
	err := s.base(ctx, f).Distinct("student_id").Count(&n).Error
	return n, err
}

func (s *gormStudentStore) DistinctPage(ctx context.Context, f dto.StudentListFilter, limit, offset int) ([]dto.StudentListItem, error) {
	var rows []listRow
	err := s.base(ctx, f).
		Select("DISTINCT ON (student_id) " + listColumns).
		Order("student_id").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]dto.StudentListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toItem())
	}
	return items, nil
}

func (s *gormStudentStore) FilteredIDs(ctx context.Context, f dto.StudentListFilter) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.base(ctx, f).
		Order("student_id").
		Pluck("student_id", &ids).Error
	return ids, err
}

func (s *gormStudentStore) ItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]dto.StudentListItem, error) {
	if len(ids) == 0 {
		return []dto.StudentListItem{}, nil
	}
	var rows []listRow
	err := s.db.WithContext(ctx).Model(&model.StudentModel{}).
		Select(listColumns).
		Where("student_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Reproduce the position of each id in the requested sequence.
	byID := make(map[uuid.UUID]listRow, len(rows))
	for _, r := range rows {
		byID[r.StudentID] = r
	}
	items := make([]dto.StudentListItem, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			items = append(items, r.toItem())
		}
	}
	return items, nil
}
