package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseQuote(t *testing.T) {
	raw := `{"type":"quote","symbol":"600000.SH","price":12.34,"ts":1767340800000}`
	var msg feedMsg
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	q, err := parseQuote(msg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Symbol != "600000.SH" || q.Price != 12.34 {
		t.Errorf("unexpected quote: %+v", q)
	}
	want := time.Unix(0, 1767340800000*int64(time.Millisecond)).UTC()
	if !q.TS.Equal(want) {
		t.Errorf("expected ts %s, got %s", want, q.TS)
	}
}

func TestParseQuote_Invalid(t *testing.T) {
	if _, err := parseQuote(feedMsg{Type: "quote", Price: 10}); err == nil {
		t.Error("missing symbol must fail")
	}
	if _, err := parseQuote(feedMsg{Type: "quote", Symbol: "600000.SH", Price: 0}); err == nil {
		t.Error("zero price must fail")
	}
}

func TestParseQuote_MissingTimestampUsesNow(t *testing.T) {
	before := time.Now().UTC()
	q, err := parseQuote(feedMsg{Type: "quote", Symbol: "600000.SH", Price: 10})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.TS.Before(before) || q.TS.After(time.Now().UTC()) {
		t.Errorf("timestamp not defaulted to now: %s", q.TS)
	}
}
