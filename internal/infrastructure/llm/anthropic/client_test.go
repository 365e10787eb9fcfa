package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

const validToolResponse = `{
  "content": [{
    "type": "tool_use",
    "name": "record_extraction",
    "input": {
      "events": [{
        "event_type": "coparent_conflict",
        "description": "Late pickup",
        "primary_timestamp": "2026-01-29T19:00:00Z",
        "timestamp_precision": "exact",
        "participants": {"primary": ["co-parent"]},
        "child_involved": true
      }],
      "action_items": [],
      "metadata": {"summary": "one conflict"}
    }
  }],
  "stop_reason": "tool_use"
}`

func TestExtractEventsParsesToolUse(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-api-key") != "key-1" {
			t.Fatalf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(validToolResponse))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "claude-sonnet")
	payload, raw, err := client.ExtractEvents(context.Background(), "system prompt", "he was late again")
	if err != nil {
		t.Fatalf("ExtractEvents() error = %v", err)
	}
	if len(payload.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(payload.Events))
	}
	if payload.Events[0].EventType != "coparent_conflict" {
		t.Fatalf("unexpected event type %q", payload.Events[0].EventType)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw payload to be returned")
	}
	if captured["system"] != "system prompt" {
		t.Fatalf("system prompt not forwarded: %v", captured["system"])
	}
	tools, _ := captured["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected exactly one tool definition")
	}
}

func TestExtractEventsFailsWithoutAPIKey(t *testing.T) {
	client := New("http://localhost:0", "", "claude-sonnet")
	_, _, err := client.ExtractEvents(context.Background(), "s", "text")
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestExtractEventsFailsOnEmptyNarrative(t *testing.T) {
	client := New("http://localhost:0", "key", "claude-sonnet")
	_, _, err := client.ExtractEvents(context.Background(), "s", "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestExtractEventsRejectsSchemaViolations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// events is required but missing entirely.
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use","name":"record_extraction","input":{"metadata":{}}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "claude-sonnet")
	_, _, err := client.ExtractEvents(context.Background(), "s", "text")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestExtractEventsRejectsEmptyExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use","name":"record_extraction","input":{"events":[],"action_items":[],"metadata":{}}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "claude-sonnet")
	_, _, err := client.ExtractEvents(context.Background(), "s", "text")
	if err == nil {
		t.Fatalf("expected error for empty extraction")
	}
}

func TestExtractEventsSurfacesHTTPBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "claude-sonnet")
	_, _, err := client.ExtractEvents(context.Background(), "s", "text")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected 503 to be classified temporary, got %v", err)
	}
}

func TestSummarizeParsesSummaryAndTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use","name":"record_evidence_summary","input":{"summary":"A text message thread from Jan 29.","tags":["messages","pickup"]}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "claude-sonnet")
	summary, tags, err := client.Summarize(context.Background(), "some extracted text")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(summary, "Jan 29") {
		t.Fatalf("unexpected summary %q", summary)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
}
