package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewAdapterModes(t *testing.T) {
	if _, err := NewAdapter(Config{Mode: "http"}); err == nil {
		t.Fatalf("http mode without url should error")
	}
	if _, err := NewAdapter(Config{Mode: "teleport"}); err == nil {
		t.Fatalf("unknown mode should error")
	}

	a, err := NewAdapter(Config{Mode: "auto"})
	if err != nil {
		t.Fatalf("auto mode error = %v", err)
	}
	if _, ok := a.(*MockAdapter); !ok {
		t.Fatalf("auto without url should resolve to mock, got %T", a)
	}

	a, err = NewAdapter(Config{Mode: "auto", HTTPURL: "http://localhost:9"})
	if err != nil {
		t.Fatalf("auto mode with url error = %v", err)
	}
	if _, ok := a.(*HTTPAdapter); !ok {
		t.Fatalf("auto with url should resolve to http, got %T", a)
	}
}

func TestMockAdapterIntent(t *testing.T) {
	a := NewMockAdapter()
	cases := []struct {
		input string
		want  string
	}{
		{"hello there", "greeting"},
		{"I want to plan a trip to Singapore", "planning"},
		{"what is the capital of France", "other"},
	}
	for _, tc := range cases {
		res, err := a.Complete(context.Background(), Request{Kind: KindIntent, UserInput: tc.input})
		if err != nil {
			t.Fatalf("Complete(%q) error = %v", tc.input, err)
		}
		if res.Text != tc.want {
			t.Fatalf("Complete(%q) = %q, want %q", tc.input, res.Text, tc.want)
		}
	}
}

func TestHTTPAdapterDecodesJSONAndRawText(t *testing.T) {
	jsonSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "structured reply"}`))
	}))
	defer jsonSrv.Close()

	res, err := NewHTTPAdapter(jsonSrv.URL).Complete(context.Background(), Request{Kind: KindGreeting})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "structured reply" {
		t.Fatalf("Text = %q", res.Text)
	}

	rawSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("RESPONSE: raw reply\n"))
	}))
	defer rawSrv.Close()

	res, err = NewHTTPAdapter(rawSrv.URL).Complete(context.Background(), Request{Kind: KindExtraction})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(res.Text, "raw reply") {
		t.Fatalf("Text = %q", res.Text)
	}
}

func TestHTTPAdapterStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewHTTPAdapter(srv.URL).Complete(context.Background(), Request{}); err == nil {
		t.Fatalf("Complete() error = nil, want status error")
	}
}
