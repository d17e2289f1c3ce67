package amqp

import (
	"encoding/json"
	"time"
)

// RecomputeMessage notifies the worker that a year's net totals changed
// and its export should be refreshed. It carries only coordinates; the
// worker reloads the data from storage.
type RecomputeMessage struct {
	ResourceID string    `json:"resource_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRecomputeMessage creates a recompute notification.
func NewRecomputeMessage(resourceID string, year, month int) *RecomputeMessage {
	return &RecomputeMessage{
		ResourceID: resourceID,
		Year:       year,
		Month:      month,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecomputeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecomputeMessageFromJSON creates a message from JSON bytes.
func RecomputeMessageFromJSON(data []byte) (*RecomputeMessage, error) {
	var msg RecomputeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
