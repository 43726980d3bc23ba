// Package history reads and appends per-user conversation turns stored in
// Firestore under users/{id}/messages. This service never owns the data:
// it only reads ascending by timestamp and appends new turns.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"daliago/internal/apperr"
	"daliago/internal/models"
)

// Store is the surface the conversation builder depends on.
type Store interface {
	History(ctx context.Context, user string) ([]models.Turn, error)
	Append(ctx context.Context, user string, turn models.Turn) error
}

// FirestoreStore implements Store against a Firestore project.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore builds the store from a service-account credentials
// file. The project id is read from the credentials themselves.
func NewFirestoreStore(ctx context.Context, credentialsPath string) (*FirestoreStore, error) {
	projectID, err := projectIDFromCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// History returns every turn for the user ordered by ascending timestamp.
// There is deliberately no limit: the full collection is the context.
func (s *FirestoreStore) History(ctx context.Context, user string) ([]models.Turn, error) {
	iter := s.client.Collection("users").Doc(user).Collection("messages").
		OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var turns []models.Turn
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStore, "read history for "+user, err)
		}
		var turn models.Turn
		if err := doc.DataTo(&turn); err != nil {
			log.Printf("skip malformed history doc %s: %v", doc.Ref.ID, err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append adds a turn to the user's message collection. The timestamp is
// assigned server-side.
func (s *FirestoreStore) Append(ctx context.Context, user string, turn models.Turn) error {
	_, _, err := s.client.Collection("users").Doc(user).Collection("messages").Add(ctx, turn)
	if err != nil {
		return apperr.Wrap(apperr.KindStore, "append history for "+user, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func projectIDFromCredentials(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credentials %s: %w", path, err)
	}
	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return "", fmt.Errorf("decode credentials %s: %w", path, err)
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("credentials %s missing project_id", path)
	}
	return creds.ProjectID, nil
}
