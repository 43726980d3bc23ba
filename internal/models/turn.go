package models

import "time"

// Turn captures a single exchange entry in a user's conversation history.

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Turn struct {
	Sender    Sender    `json:"sender" firestore:"sender"`
	Text      string    `json:"text" firestore:"text"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
