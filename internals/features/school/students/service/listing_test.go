// file: internals/features/school/students/service/listing_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "escola_backend/internals/features/school/students/dto"
)

// fakeStudentStore serves the listing engine from an in-memory identity
// sequence. The sequence may contain duplicate ids on purpose.
type fakeStudentStore struct {
	distinctOn bool
	sequence   []uuid.UUID
	items      map[uuid.UUID]dto.StudentListItem

	// knobs
	distinctCount   int64 // what CountDistinct claims
	distinctPage    []dto.StudentListItem
	failFilteredIDs bool
	failItemsByIDs  bool

	itemsByIDsCalls int
}

func (f *fakeStudentStore) SupportsDistinctOn() bool { return f.distinctOn }

func (f *fakeStudentStore) CountDistinct(_ context.Context, _ dto.StudentListFilter) (int64, error) {
	return f.distinctCount, nil
}

func (f *fakeStudentStore) DistinctPage(_ context.Context, _ dto.StudentListFilter, limit, offset int) ([]dto.StudentListItem, error) {
	page := f.distinctPage
	if offset >= len(page) {
		return []dto.StudentListItem{}, nil
	}
	end := offset + limit
	if end > len(page) {
		end = len(page)
	}
	return page[offset:end], nil
}

func (f *fakeStudentStore) FilteredIDs(_ context.Context, fl dto.StudentListFilter) ([]uuid.UUID, error) {
	if f.failFilteredIDs {
		return nil, errors.New("boom")
	}
	if fl.Search == "" {
		return f.sequence, nil
	}
	var out []uuid.UUID
	for _, id := range f.sequence {
		if it, ok := f.items[id]; ok && strings.Contains(it.StudentName, fl.Search) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) ItemsByIDs(_ context.Context, ids []uuid.UUID) ([]dto.StudentListItem, error) {
	f.itemsByIDsCalls++
	if f.failItemsByIDs {
		return nil, errors.New("boom")
	}
	out := make([]dto.StudentListItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// seedStore builds n students and an identity sequence where dupEvery > 0
// repeats every dupEvery-th identity immediately.
func seedStore(n, dupEvery int) *fakeStudentStore {
	f := &fakeStudentStore{items: map[uuid.UUID]dto.StudentListItem{}}
	for i := 0; i < n; i++ {
		id := uuid.New()
		f.items[id] = dto.StudentListItem{
			StudentID:   id,
			StudentName: fmt.Sprintf("Student %02d", i),
		}
		f.sequence = append(f.sequence, id)
		if dupEvery > 0 && (i+1)%dupEvery == 0 {
			f.sequence = append(f.sequence, id)
		}
	}
	return f
}

func TestListFallbackDeduplicatesPreservingOrder(t *testing.T) {
	store := seedStore(5, 2) // ids 1 and 3 appear twice in the sequence
	engine := NewListingEngine(store, 10)

	res := engine.List(context.Background(), dto.StudentListFilter{}, 1)

	require.Len(t, res.Items, 5)
	assert.EqualValues(t, 5, res.Total)
	for i, it := range res.Items {
		assert.Equal(t, fmt.Sprintf("Student %02d", i), it.StudentName, "first-occurrence order must survive dedup")
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range res.ItemIDs {
		assert.False(t, seen[id], "page must not repeat an identity")
		seen[id] = true
	}
}

func TestListFallbackPagination(t *testing.T) {
	store := seedStore(7, 3)
	engine := NewListingEngine(store, 3)

	p1 := engine.List(context.Background(), dto.StudentListFilter{}, 1)
	p2 := engine.List(context.Background(), dto.StudentListFilter{}, 2)
	p3 := engine.List(context.Background(), dto.StudentListFilter{}, 3)

	assert.Len(t, p1.Items, 3)
	assert.Len(t, p2.Items, 3)
	assert.Len(t, p3.Items, 1)
	assert.EqualValues(t, 7, p1.Total)
	assert.Equal(t, 3, p1.TotalPages)
	assert.True(t, p1.HasMore)
	assert.False(t, p3.HasMore)

	// No identity appears on two pages.
	all := append(append([]uuid.UUID{}, p1.ItemIDs...), p2.ItemIDs...)
	all = append(all, p3.ItemIDs...)
	seen := map[uuid.UUID]bool{}
	for _, id := range all {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, all, 7)
}

func TestListSearchFilter(t *testing.T) {
	store := seedStore(3, 0)
	maria := uuid.New()
	store.items[maria] = dto.StudentListItem{StudentID: maria, StudentName: "Maria Souza"}
	store.sequence = append(store.sequence, maria, maria) // duplicated in the raw sequence

	engine := NewListingEngine(store, 10)
	res := engine.List(context.Background(), dto.StudentListFilter{Search: "Maria"}, 1)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Maria Souza", res.Items[0].StudentName)
	assert.EqualValues(t, 1, res.Total)
}

func TestListNativeDistinctPath(t *testing.T) {
	store := seedStore(4, 0)
	store.distinctOn = true
	store.distinctCount = 4
	for _, id := range store.sequence {
		store.distinctPage = append(store.distinctPage, store.items[id])
	}

	engine := NewListingEngine(store, 10)
	res := engine.List(context.Background(), dto.StudentListFilter{}, 1)

	require.Len(t, res.Items, 4)
	assert.EqualValues(t, 4, res.Total)
	assert.Zero(t, store.itemsByIDsCalls, "native path must not re-query by ids")
}

func TestListProbeDetectsBrokenDistinct(t *testing.T) {
	store := seedStore(4, 1) // every identity duplicated in the raw sequence
	store.distinctOn = true
	// The store claims more distinct rows than there are unique identities,
	// i.e. the native distinct is not actually reducing.
	store.distinctCount = 8

	engine := NewListingEngine(store, 10)
	res := engine.List(context.Background(), dto.StudentListFilter{}, 1)

	require.Len(t, res.Items, 4, "fallback must take over when the probe fails")
	assert.EqualValues(t, 4, res.Total)
	assert.Equal(t, 1, store.itemsByIDsCalls)
}

func TestListNativePageSelfHeals(t *testing.T) {
	store := seedStore(3, 0)
	store.distinctOn = true
	store.distinctCount = 3
	dup := store.items[store.sequence[0]]
	store.distinctPage = []dto.StudentListItem{
		dup,
		store.items[store.sequence[1]],
		dup, // a duplicate identity slipping through the lower layer
		store.items[store.sequence[2]],
	}

	engine := NewListingEngine(store, 10)
	res := engine.List(context.Background(), dto.StudentListFilter{}, 1)

	require.Len(t, res.Items, 3)
	assert.Equal(t, dup.StudentID, res.Items[0].StudentID)
}

func TestListDegradesToEmptyOnError(t *testing.T) {
	store := seedStore(3, 0)
	store.failFilteredIDs = true

	engine := NewListingEngine(store, 10)
	res := engine.List(context.Background(), dto.StudentListFilter{}, 1)

	assert.Empty(t, res.Items)
	assert.EqualValues(t, 0, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	assert.False(t, res.HasMore)
}

func TestListClampsPage(t *testing.T) {
	store := seedStore(2, 0)
	engine := NewListingEngine(store, 10)

	res := engine.List(context.Background(), dto.StudentListFilter{}, -3)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, 2)

	beyond := engine.List(context.Background(), dto.StudentListFilter{}, 99)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 2, beyond.Total)
}
