package amqp

import (
	"testing"
	"time"
)

func TestRecomputeMessageRoundTrip(t *testing.T) {
	msg := NewRecomputeMessage("checking", 2025, 9)
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := RecomputeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ResourceID != "checking" || decoded.Year != 2025 || decoded.Month != 9 {
		t.Fatalf("unexpected decoded message: %+v", decoded)
	}
	if !decoded.Timestamp.Truncate(time.Second).Equal(msg.Timestamp.Truncate(time.Second)) {
		t.Fatalf("timestamp not preserved: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestRecomputeMessageFromJSONInvalid(t *testing.T) {
	if _, err := RecomputeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
