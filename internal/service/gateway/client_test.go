package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ZapRelay/internal/config"
)

func newClientForTest(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conf := &config.Config{}
	conf.Gateway.BaseURL = server.URL
	return NewClient(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendTextSynthesizesJid(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client := newClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})

	raw, err := client.SendText(context.Background(), "5511999", "hi there")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if gotPath != "/send/text" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["jid"] != "5511999@s.whatsapp.net" {
		t.Fatalf("jid suffix not synthesized: %q", gotBody["jid"])
	}
	if gotBody["message"] != "hi there" {
		t.Fatalf("unexpected message %q", gotBody["message"])
	}

	var echoed map[string]bool
	if err := json.Unmarshal(raw, &echoed); err != nil || !echoed["ok"] {
		t.Fatalf("gateway body not returned unmodified: %s", raw)
	}
}

func TestSendImageEmptyCaption(t *testing.T) {
	var gotBody map[string]string
	client := newClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	})

	if _, err := client.SendImage(context.Background(), "5511999", "http://cdn/img.png", ""); err != nil {
		t.Fatalf("SendImage: %v", err)
	}
	if caption, ok := gotBody["caption"]; !ok || caption != "" {
		t.Fatalf("caption must be present as empty string, got %v", gotBody)
	}
}

func TestSendAudioPtt(t *testing.T) {
	var gotBody map[string]any
	client := newClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("{}"))
	})

	if _, err := client.SendAudio(context.Background(), "5511999", "http://cdn/a.ogg", true); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}
	if gotBody["ptt"] != true {
		t.Fatalf("ptt flag lost: %v", gotBody)
	}
}

func TestSendTextNon2xx(t *testing.T) {
	client := newClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"session closed"}`, http.StatusBadGateway)
	})

	if _, err := client.SendText(context.Background(), "5511999", "hi"); err == nil {
		t.Fatal("expected error on non-2xx gateway status")
	}
}

func TestForwardKeepsStatusAndBody(t *testing.T) {
	var gotBody []byte
	client := newClientForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":"nope"}`))
	})

	res, err := client.Forward(context.Background(), "text", []byte(`{"jid":"raw@g.us","message":"x"}`))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	// The proxy path forwards the caller's jid untouched.
	if string(gotBody) != `{"jid":"raw@g.us","message":"x"}` {
		t.Fatalf("body altered in flight: %s", gotBody)
	}
	if res.StatusCode != http.StatusTeapot || string(res.Body) != `{"error":"nope"}` {
		t.Fatalf("downstream response not preserved: %d %s", res.StatusCode, res.Body)
	}
}

func TestForwardTransportError(t *testing.T) {
	conf := &config.Config{}
	conf.Gateway.BaseURL = "http://127.0.0.1:1"
	client := NewClient(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := client.Forward(context.Background(), "text", []byte(`{}`)); err == nil {
		t.Fatal("expected transport error")
	}
}
