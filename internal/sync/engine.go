package sync

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"reelsync/internal/models"
)

// Catalog is the external metadata source as seen by the engine.
// Implemented by services.TmdbClient; tests substitute fakes.
type Catalog interface {
	Resolve(ctx context.Context, title string) (*models.ExternalItem, error)
	FetchDetail(ctx context.Context, externalID int64, mediaType models.MediaType) (*models.TmdbDetail, error)
	FetchProviders(ctx context.Context, externalID int64, mediaType models.MediaType) ([]string, error)
}

// Outcome tells the caller what a sync did to the store.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Result describes a completed sync.
type Result struct {
	Outcome    Outcome
	RecordID   string
	Title      string
	ExternalID int64
}

// Engine drives one title through resolve, map, match and the
// create-or-update decision. Re-running the same title is safe: the second
// pass matches the record written by the first and updates it in place.
type Engine struct {
	catalog Catalog
	store   Store
	matcher *Matcher
	guard   *AttachmentGuard
	logger  *logrus.Logger
}

func NewEngine(catalog Catalog, store Store, logger *logrus.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		store:   store,
		matcher: NewMatcher(store),
		guard:   NewAttachmentGuard(store, logger),
		logger:  logger,
	}
}

// SyncOne resolves title against the catalog and upserts the matching
// record. Returns ErrNotFound or ErrUnsupportedMediaType from the catalog,
// an AmbiguousMatchError when the store holds several title matches, or the
// store-write failure. Status is only written on create.
func (e *Engine) SyncOne(ctx context.Context, title string) (*Result, error) {
	item, err := e.catalog.Resolve(ctx, title)
	if err != nil {
		return nil, err
	}

	detail, providers, err := e.fetchItem(ctx, item)
	if err != nil {
		return nil, err
	}

	props := MapProperties(detail, item.MediaType, providers)

	match, err := e.matcher.Find(ctx, item.ExternalID, props.Title)
	if err != nil {
		return nil, err
	}
	if match.Ambiguous() {
		return nil, &AmbiguousMatchError{Query: props.Title, Count: len(match.Candidates)}
	}

	result := &Result{Title: props.Title, ExternalID: item.ExternalID}
	if match.Unique() {
		if err := e.store.UpdateRecord(ctx, match.Record.ID, props); err != nil {
			return nil, fmt.Errorf("update record: %w", err)
		}
		result.Outcome = OutcomeUpdated
		result.RecordID = match.Record.ID
	} else {
		record, err := e.store.CreateRecord(ctx, props, models.StatusToWatch)
		if err != nil {
			return nil, fmt.Errorf("create record: %w", err)
		}
		result.Outcome = OutcomeCreated
		result.RecordID = record.ID
	}

	e.logger.WithFields(logrus.Fields{
		"title":       props.Title,
		"external_id": item.ExternalID,
		"outcome":     result.Outcome,
	}).Info("Record synced")

	imageURL := ""
	if props.ImageURL != nil {
		imageURL = *props.ImageURL
	}
	if err := e.guard.Ensure(ctx, result.RecordID, imageURL); err != nil {
		return nil, err
	}

	return result, nil
}

// fetchItem issues the detail and provider reads concurrently; neither
// depends on the other. A provider failure degrades to an empty list, the
// sync proceeds on the detail alone.
func (e *Engine) fetchItem(ctx context.Context, item *models.ExternalItem) (*models.TmdbDetail, []string, error) {
	type detailResult struct {
		detail *models.TmdbDetail
		err    error
	}
	type providerResult struct {
		providers []string
		err       error
	}

	detailCh := make(chan detailResult, 1)
	providerCh := make(chan providerResult, 1)

	go func() {
		detail, err := e.catalog.FetchDetail(ctx, item.ExternalID, item.MediaType)
		detailCh <- detailResult{detail: detail, err: err}
	}()
	go func() {
		providers, err := e.catalog.FetchProviders(ctx, item.ExternalID, item.MediaType)
		providerCh <- providerResult{providers: providers, err: err}
	}()

	d := <-detailCh
	p := <-providerCh

	if d.err != nil {
		return nil, nil, fmt.Errorf("fetch detail: %w", d.err)
	}
	if p.err != nil {
		e.logger.WithError(p.err).WithField("external_id", item.ExternalID).
			Warn("Provider fetch failed, continuing without platform")
		p.providers = nil
	}

	return d.detail, p.providers, nil
}

// Matcher exposes the store matcher so the bot commands can run free-text
// lookups with the same ambiguity rules as reconciliation.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}
