package image

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"daliago/internal/apperr"
)

const (
	DefaultScratchTTL    = time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

// save persists the bitmap under a per-request unique name so concurrent
// requests never share a scratch path.
func (n *Normalizer) save(img image.Image, mimeType string) (*Scratch, error) {
	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "create scratch directory", err)
	}
	ext := ".png"
	if mimeType == MIMEJPEG {
		ext = ".jpg"
	}
	path := filepath.Join(n.dir, fmt.Sprintf("upload-%s%s", uuid.NewString(), ext))
	f, err := os.Create(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, "create scratch file", err)
	}
	if err := encode(f, img, mimeType); err != nil {
		f.Close()
		os.Remove(path)
		return nil, apperr.Wrap(apperr.KindDecode, "encode scratch file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, apperr.Wrap(apperr.KindDecode, "close scratch file", err)
	}
	return &Scratch{Path: path, MIMEType: mimeType}, nil
}

// Cleanup removes a request's scratch file. Best effort: failures are
// logged and never mask the primary response.
func Cleanup(scratch *Scratch) {
	if scratch == nil || scratch.Path == "" {
		return
	}
	if err := os.Remove(scratch.Path); err != nil {
		if os.IsNotExist(err) {
			log.Printf("scratch file already gone: %s", scratch.Path)
		} else {
			log.Printf("remove scratch file %s failed: %v", scratch.Path, err)
		}
		return
	}
	log.Printf("scratch file removed: %s", scratch.Path)
}

// StartSweeper launches a background loop that removes scratch files left
// behind by requests that died before their cleanup ran.
func (n *Normalizer) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultScratchTTL
	}
	go n.sweepLoop(ctx, interval, ttl)
}

func (n *Normalizer) sweepLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.sweepStale(ttl); err != nil {
				log.Printf("sweep scratch files error: %v", err)
			}
		}
	}
}

func (n *Normalizer) sweepStale(ttl time.Duration) error {
	entries, err := os.ReadDir(n.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(n.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove stale scratch file %s failed: %v", path, err)
		}
	}
	return nil
}
