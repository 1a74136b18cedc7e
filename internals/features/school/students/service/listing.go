// file: internals/features/school/students/service/listing.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	dto "escola_backend/internals/features/school/students/dto"
)

// ListResult is one page of the student directory plus the metadata the
// "load more" client needs. ItemIDs lets the client detect duplicates
// independently of server state.
type ListResult struct {
	Items      []dto.StudentListItem
	Total      int64
	Page       int
	TotalPages int
	HasMore    bool
	ItemIDs    []uuid.UUID
}

// ListingEngine produces the stable, deduplicated, paginated student
// directory. Failures degrade to an empty result: this is a low-stakes
// read path and must never surface a hard error.
type ListingEngine struct {
	Store    StudentStore
	PageSize int
}

func NewListingEngine(store StudentStore, pageSize int) *ListingEngine {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &ListingEngine{Store: store, PageSize: pageSize}
}

// List returns the requested page. page is 1-based; anything below 1 is
// clamped.
func (e *ListingEngine) List(ctx context.Context, f dto.StudentListFilter, page int) ListResult {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * e.PageSize

	items, total, err := e.fetchPage(ctx, f, offset)
	if err != nil {
		log.Printf("[STUDENTS][LIST] query failed, degrading to empty result: %v", err)
		return emptyResult(page)
	}

	// Defense in depth: the lower layers should have deduplicated already,
	// but if a duplicate identity slips into the page, heal it in place
	// rather than erroring out of a directory view.
	items = dedupePage(items)

	totalPages := int((total + int64(e.PageSize) - 1) / int64(e.PageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.StudentID)
	}
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
		ItemIDs:    ids,
	}
}

// fetchPage picks the native distinct strategy when the store supports it
// and it demonstrably works; otherwise the in-memory fallback.
func (e *ListingEngine) fetchPage(ctx context.Context, f dto.StudentListFilter, offset int) ([]dto.StudentListItem, int64, error) {
	if e.Store.SupportsDistinctOn() {
		distinctCount, err := e.Store.CountDistinct(ctx, f)
		if err != nil {
			return nil, 0, err
		}

		// Probe: if the raw identity sequence dedupes to fewer entries
		// than the store's distinct count claims, the native operation is
		// not actually reducing duplicates. Fall back.
		ids, err := e.Store.FilteredIDs(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		unique := uniqueInOrder(ids)
		if int64(len(unique)) < distinctCount {
			log.Printf("[STUDENTS][LIST] native distinct did not reduce (%d vs %d unique), using fallback",
				distinctCount, len(unique))
			return e.fallbackPage(ctx, unique, offset)
		}

		items, err := e.Store.DistinctPage(ctx, f, e.PageSize, offset)
		if err != nil {
			return nil, 0, err
		}
		return items, distinctCount, nil
	}

	ids, err := e.Store.FilteredIDs(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return e.fallbackPage(ctx, uniqueInOrder(ids), offset)
}

// fallbackPage pages over the order-preserving unique identity sequence
// and re-queries just that page's ids, keeping the sequence order.
func (e *ListingEngine) fallbackPage(ctx context.Context, unique []uuid.UUID, offset int) ([]dto.StudentListItem, int64, error) {
	total := int64(len(unique))
	if offset >= len(unique) {
		return []dto.StudentListItem{}, total, nil
	}
	end := offset + e.PageSize
	if end > len(unique) {
		end = len(unique)
	}
	items, err := e.Store.ItemsByIDs(ctx, unique[offset:end])
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// uniqueInOrder deduplicates ids preserving first occurrence.
func uniqueInOrder(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// dedupePage removes duplicate identities from a rendered page, keeping
// the first occurrence. Finding one is a lower-layer anomaly: log and
// self-heal, never raise.
func dedupePage(items []dto.StudentListItem) []dto.StudentListItem {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := items[:0]
	dropped := 0
	for _, it := range items {
		if _, ok := seen[it.StudentID]; ok {
			dropped++
			continue
		}
		seen[it.StudentID] = struct{}{}
		out = append(out, it)
	}
	if dropped > 0 {
		log.Printf("[STUDENTS][LIST][WARN] page contained %d duplicate identities, self-healed", dropped)
	}
	return out
}

func emptyResult(page int) ListResult {
	return ListResult{
		Items:      []dto.StudentListItem{},
		Page:       page,
		TotalPages: 1,
		ItemIDs:    []uuid.UUID{},
	}
}
