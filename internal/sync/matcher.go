package sync

import (
	"context"
	"fmt"

	"reelsync/internal/models"
)

// Store is the destination record store as the reconciliation core sees it.
// Implemented by services.NotionClient; tests substitute fakes.
type Store interface {
	FindByExternalID(ctx context.Context, externalID int64) ([]models.Record, error)
	FindByTitle(ctx context.Context, title string, exact bool) ([]models.Record, error)
	CreateRecord(ctx context.Context, props models.Properties, status models.Status) (*models.Record, error)
	UpdateRecord(ctx context.Context, recordID string, props models.Properties) error
	ListAttachments(ctx context.Context, recordID string) ([]string, error)
	AppendImage(ctx context.Context, recordID string, imageURL string) error
}

// MatchResult is the outcome of a store lookup: no record, exactly one, or
// several candidates that need disambiguation.
type MatchResult struct {
	Record     *models.Record
	Candidates []models.Record
}

func (m MatchResult) None() bool      { return m.Record == nil && len(m.Candidates) == 0 }
func (m MatchResult) Unique() bool    { return m.Record != nil }
func (m MatchResult) Ambiguous() bool { return len(m.Candidates) > 1 }

// Matcher resolves which existing record, if any, a catalog item maps to.
type Matcher struct {
	store Store
}

func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

// Find evaluates the match priority for catalog-driven reconciliation:
// external id equals, then exact title equals. The external id is the
// authoritative dedup key; when the store already holds a record for it,
// that record wins regardless of title. The contains tier is excluded here
// because it risks false positives against unrelated entries.
func (m *Matcher) Find(ctx context.Context, externalID int64, title string) (MatchResult, error) {
	if externalID != 0 {
		records, err := m.store.FindByExternalID(ctx, externalID)
		if err != nil {
			return MatchResult{}, fmt.Errorf("find by external id: %w", err)
		}
		if len(records) > 0 {
			return MatchResult{Record: &records[0]}, nil
		}
	}

	if title == "" {
		return MatchResult{}, nil
	}

	records, err := m.store.FindByTitle(ctx, title, true)
	if err != nil {
		return MatchResult{}, fmt.Errorf("find by title: %w", err)
	}
	return resultFor(records), nil
}

// FindByTitle serves the free-text bot commands: exact title match first,
// then a contains fallback. More than one hit at either tier is ambiguous.
func (m *Matcher) FindByTitle(ctx context.Context, title string) (MatchResult, error) {
	records, err := m.store.FindByTitle(ctx, title, true)
	if err != nil {
		return MatchResult{}, fmt.Errorf("find by title: %w", err)
	}
	if len(records) == 0 {
		records, err = m.store.FindByTitle(ctx, title, false)
		if err != nil {
			return MatchResult{}, fmt.Errorf("find by title contains: %w", err)
		}
	}
	return resultFor(records), nil
}

func resultFor(records []models.Record) MatchResult {
	switch len(records) {
	case 0:
		return MatchResult{}
	case 1:
		return MatchResult{Record: &records[0]}
	default:
		return MatchResult{Candidates: records}
	}
}
