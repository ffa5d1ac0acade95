package sync

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AttachmentGuard makes sure a record carries a given image exactly once.
// The check-then-append is not atomic against concurrent writers; a single
// title is only ever synced by one caller at a time, so that is acceptable.
type AttachmentGuard struct {
	store  Store
	logger *logrus.Logger
}

func NewAttachmentGuard(store Store, logger *logrus.Logger) *AttachmentGuard {
	return &AttachmentGuard{store: store, logger: logger}
}

// Ensure appends imageURL to the record unless an attachment with the
// identical reference is already present. Empty imageURL is a no-op.
func (g *AttachmentGuard) Ensure(ctx context.Context, recordID string, imageURL string) error {
	if imageURL == "" {
		return nil
	}

	existing, err := g.store.ListAttachments(ctx, recordID)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, url := range existing {
		if url == imageURL {
			g.logger.WithFields(logrus.Fields{
				"record_id": recordID,
				"image_url": imageURL,
			}).Debug("Image already attached, skipping")
			return nil
		}
	}

	if err := g.store.AppendImage(ctx, recordID, imageURL); err != nil {
		return fmt.Errorf("append image: %w", err)
	}
	return nil
}
