package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// PurchaseSyncMessage announces a stored purchase to the sheets worker.
// It carries only the id; the worker loads the purchase from the database.
type PurchaseSyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPurchaseSyncMessage(id string) *PurchaseSyncMessage {
	return &PurchaseSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *PurchaseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PurchaseSyncMessageFromJSON decodes a message; an empty id is an error.
func PurchaseSyncMessageFromJSON(data []byte) (*PurchaseSyncMessage, error) {
	var msg PurchaseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("missing purchase id")
	}
	return &msg, nil
}
