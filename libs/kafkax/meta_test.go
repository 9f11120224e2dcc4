package kafkax

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestEventMetaHeadersRoundTrip(t *testing.T) {
	meta := EventMeta{EventID: "evt-1", EventType: "console.department.created.v1", Actor: "admin@clinic.local"}
	msg := kafka.Message{Topic: "clinic.admin.activity", Headers: meta.Headers()}
	got := ExtractEventMeta(msg)
	if got != meta {
		t.Fatalf("expected %+v, got %+v", meta, got)
	}
}

func TestExtractEventMetaFallsBackToKeyAndTopic(t *testing.T) {
	got := ExtractEventMeta(kafka.Message{Topic: "t", Key: []byte("k")})
	if got.EventID != "k" || got.EventType != "t" {
		t.Fatalf("unexpected meta %+v", got)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" a:9092, ,b:9092")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", got)
	}
}
