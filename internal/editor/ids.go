package editor

import (
	"github.com/edugen/studio/internal/model"
	"github.com/google/uuid"
)

// IDSource mints provisional identifiers for locally created entities.
type IDSource func() model.ID

// NewLocalID returns a provisional identifier backed by a random UUID.
func NewLocalID() model.ID {
	return model.LocalID("local-" + uuid.NewString())
}
