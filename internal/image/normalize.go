// Package image normalizes inbound plant pictures. Whatever the source
// (multipart upload, base64 payload, remote URL) the result is a decodable
// bitmap persisted to a request-scoped scratch file.
package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"daliago/internal/apperr"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

// base64Prefixes are the data-URI markers stripped by exact match before
// decoding. Anything else is passed through and fails at the decode step.
var base64Prefixes = []string{
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
	"data:image/jpg;base64,",
}

// Scratch is a filesystem path owned exclusively by one request.
type Scratch struct {
	Path     string
	MIMEType string
}

// Normalizer converts inbound image payloads into scratch files under dir.
type Normalizer struct {
	dir    string
	client *http.Client
}

// NewNormalizer constructs a Normalizer writing under dir. The HTTP client
// is used for URL-sourced images; nil falls back to http.DefaultClient.
func NewNormalizer(dir string, client *http.Client) *Normalizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Normalizer{dir: dir, client: client}
}

// StripBase64Prefix removes a recognized data-URI marker from the payload.
// Unrecognized prefixes are left untouched.
func StripBase64Prefix(payload string) string {
	for _, prefix := range base64Prefixes {
		if strings.HasPrefix(payload, prefix) {
			return strings.TrimPrefix(payload, prefix)
		}
	}
	return payload
}

// FromBase64 decodes a base64 payload (optionally carrying a data-URI
// prefix) and persists it as a PNG scratch file.
func (n *Normalizer) FromBase64(payload string) (*Scratch, error) {
	raw, err := base64.StdEncoding.DecodeString(StripBase64Prefix(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "decode base64 image", err)
	}
	img, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return n.save(img, MIMEPNG)
}

// FromURL fetches the image with a blocking request and persists it as a
// PNG scratch file. A non-success status or an undecodable body fails the
// request; no upload is attempted afterwards.
func (n *Normalizer) FromURL(url string) (*Scratch, error) {
	resp, err := n.client.Get(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDownload, "download image", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.KindDownload, fmt.Sprintf("download image: status %d", resp.StatusCode))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDownload, "read image body", err)
	}
	img, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return n.save(img, MIMEPNG)
}

// FromUpload accepts a multipart file. The declared filename extension is
// trusted for the target MIME type; only an empty filename is rejected.
func (n *Normalizer) FromUpload(header *multipart.FileHeader) (*Scratch, error) {
	if header == nil || header.Filename == "" {
		return nil, apperr.New(apperr.KindValidation, "image filename is required")
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "open uploaded image", err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "read uploaded image", err)
	}
	img, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return n.save(img, mimeFromExtension(header.Filename))
}

func mimeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return MIMEJPEG
	default:
		return MIMEPNG
	}
}

// decode validates the bytes with a cheap config pass first, then decodes
// from a fresh reader since the validation pass consumes the stream.
func decode(raw []byte) (image.Image, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "decode image", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "decode image", err)
	}
	return img, nil
}

// flatten composites the image over an opaque background. JPEG has no
// alpha channel, so sources must lose theirs before encoding.
func flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

func encode(w io.Writer, img image.Image, mimeType string) error {
	if mimeType == MIMEJPEG {
		return jpeg.Encode(w, flatten(img), nil)
	}
	return png.Encode(w, img)
}
