package ports

import (
	"context"

	"github.com/aretw0/magie/pkg/domain"
)

// Extractor turns a free-text utterance plus conversation history into a
// structured intent and entity set. Implementations call an external
// reasoning service and must validate the shape of the response before
// returning it; on transport, timeout or parse failure they return a
// *domain.ExtractionError and no result. The engine never retries within
// a turn.
type Extractor interface {
	Extract(ctx context.Context, userID string, history []string, utterance string) (*domain.ExtractionResult, error)
}
