// Package chat assembles the persona prompt for the plant-care assistant
// and runs both request flows against the generative model.
package chat

import (
	"context"

	"daliago/internal/history"
	"daliago/internal/models"
)

// Generator is the slice of the model client the builder needs.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateWithFile(ctx context.Context, handle models.FileHandle, opening, question string) (string, error)
}

// Uploader hands scratch files to the model service.
type Uploader interface {
	UploadFile(ctx context.Context, path, mimeType string) (*models.FileHandle, error)
}

// Service composes history, keywords and persona instructions into prompts.
type Service struct {
	generator Generator
	uploader  Uploader
	store     history.Store
}

// NewService constructs the service. store may be nil when the external
// history store could not be reached at startup; every request then runs
// with an empty history.
func NewService(generator Generator, uploader Uploader, store history.Store) *Service {
	return &Service{
		generator: generator,
		uploader:  uploader,
		store:     store,
	}
}
