package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"daliago/internal/apperr"
)

// pngBytes encodes a small image with a transparent pixel.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, A: 128}) // semi-transparent
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestStripBase64Prefix(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngBytes(t))
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"png prefix", "data:image/png;base64," + payload, payload},
		{"jpeg prefix", "data:image/jpeg;base64," + payload, payload},
		{"jpg prefix", "data:image/jpg;base64," + payload, payload},
		{"no prefix", payload, payload},
		{"unknown prefix kept", "data:image/webp;base64," + payload, "data:image/webp;base64," + payload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripBase64Prefix(tc.input); got != tc.want {
				t.Fatalf("StripBase64Prefix mismatch: got %q want %q", got[:20], tc.want[:20])
			}
		})
	}
}

func TestFromBase64RoundTrip(t *testing.T) {
	n := NewNormalizer(t.TempDir(), nil)
	raw := pngBytes(t)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	scratch, err := n.FromBase64(payload)
	if err != nil {
		t.Fatalf("FromBase64 failed: %v", err)
	}
	if scratch.MIMEType != MIMEPNG {
		t.Fatalf("expected png scratch, got %s", scratch.MIMEType)
	}
	saved, err := os.ReadFile(scratch.Path)
	if err != nil {
		t.Fatalf("read scratch: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(saved))
	if err != nil {
		t.Fatalf("scratch is not a valid png: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected dimensions: %v", img.Bounds())
	}
}

func TestFromBase64Deterministic(t *testing.T) {
	n := NewNormalizer(t.TempDir(), nil)
	payload := base64.StdEncoding.EncodeToString(pngBytes(t))

	first, err := n.FromBase64(payload)
	if err != nil {
		t.Fatalf("first normalize: %v", err)
	}
	second, err := n.FromBase64(payload)
	if err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if first.Path == second.Path {
		t.Fatalf("scratch paths must be unique per request")
	}
	a, _ := os.ReadFile(first.Path)
	b, _ := os.ReadFile(second.Path)
	if !bytes.Equal(a, b) {
		t.Fatalf("identical input produced different scratch contents")
	}
}

func TestFromBase64Invalid(t *testing.T) {
	n := NewNormalizer(t.TempDir(), nil)
	if _, err := n.FromBase64("not base64 at all!!"); err == nil {
		t.Fatalf("expected decode error")
	} else if apperr.KindOf(err) != apperr.KindDecode {
		t.Fatalf("expected decode kind, got %v", apperr.KindOf(err))
	}
	// valid base64, not an image
	payload := base64.StdEncoding.EncodeToString([]byte("plain text"))
	if _, err := n.FromBase64(payload); err == nil {
		t.Fatalf("expected decode error for non-image bytes")
	}
}

func TestJPEGOutputDropsAlpha(t *testing.T) {
	dir := t.TempDir()
	n := NewNormalizer(dir, nil)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 40})

	scratch, err := n.save(img, MIMEJPEG)
	if err != nil {
		t.Fatalf("save jpeg: %v", err)
	}
	raw, err := os.ReadFile(scratch.Path)
	if err != nil {
		t.Fatalf("read jpeg scratch: %v", err)
	}
	out, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg scratch: %v", err)
	}
	bounds := out.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := out.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("pixel (%d,%d) kept alpha %d", x, y, a)
			}
		}
	}
}

func TestFromURL(t *testing.T) {
	raw := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(raw)
		case "/text":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := NewNormalizer(t.TempDir(), srv.Client())

	scratch, err := n.FromURL(srv.URL + "/ok.png")
	if err != nil {
		t.Fatalf("FromURL failed: %v", err)
	}
	if _, err := os.Stat(scratch.Path); err != nil {
		t.Fatalf("scratch not persisted: %v", err)
	}

	if _, err := n.FromURL(srv.URL + "/missing.png"); apperr.KindOf(err) != apperr.KindDownload {
		t.Fatalf("expected download error for 404, got %v", err)
	}
	if _, err := n.FromURL(srv.URL + "/text"); apperr.KindOf(err) != apperr.KindDecode {
		t.Fatalf("expected decode error for non-image body, got %v", err)
	}
}

func TestSweepStale(t *testing.T) {
	dir := t.TempDir()
	n := NewNormalizer(dir, nil)
	scratch, err := n.FromBase64(base64.StdEncoding.EncodeToString(pngBytes(t)))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// negative ttl treats everything as expired once the sweep runs
	if err := n.sweepStale(-time.Second); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, err := os.Stat(scratch.Path); !os.IsNotExist(err) {
		t.Fatalf("expected stale scratch file to be removed")
	}
}
