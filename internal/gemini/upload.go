package gemini

import (
	"context"
	"log"
	"os"

	"google.golang.org/genai"

	"daliago/internal/apperr"
	"daliago/internal/models"
)

// UploadFile hands a scratch file to the model service and returns the
// opaque handle for the conversation turn that follows. The path is
// checked before any network call; the upload itself is a single call
// with no retry.
func (c *Client) UploadFile(ctx context.Context, path, mimeType string) (*models.FileHandle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Wrap(apperr.KindUpload, "scratch file does not exist: "+path, err)
	}
	file, err := c.inner.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpload, "upload file", err)
	}
	log.Printf("uploaded file %q to %s", file.DisplayName, file.URI)
	return &models.FileHandle{
		Name:        file.Name,
		DisplayName: file.DisplayName,
		URI:         file.URI,
		MIMEType:    mimeType,
	}, nil
}
