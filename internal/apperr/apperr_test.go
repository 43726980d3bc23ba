package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(KindValidation, "missing field"), http.StatusBadRequest},
		{"download", New(KindDownload, "status 404"), http.StatusInternalServerError},
		{"decode", New(KindDecode, "bad bytes"), http.StatusInternalServerError},
		{"upload", New(KindUpload, "rejected"), http.StatusInternalServerError},
		{"generation", New(KindGeneration, "model down"), http.StatusInternalServerError},
		{"store", New(KindStore, "unreachable"), http.StatusInternalServerError},
		{"plain error", errors.New("anything"), http.StatusInternalServerError},
		{"wrapped taxonomy error", fmt.Errorf("outer: %w", New(KindValidation, "inner")), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindDownload, "download image", errors.New("connection refused"))
	if err.Error() != "download image: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, err) {
		t.Fatalf("error must match itself")
	}
	if KindOf(err) != KindDownload {
		t.Fatalf("kind lost through wrap")
	}
}
