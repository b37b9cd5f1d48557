package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeBotAPI struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeBotAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"pricing","username":"pricing_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.mu.Lock()
			f.sent = append(f.sent, r.FormValue("chat_id")+":"+r.FormValue("text"))
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
		default:
			fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	})
}

func TestTelegramNotifierSends(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	n, err := NewTelegramNotifierWithEndpoint("token", srv.URL+"/bot%s/%s", 42)
	if err != nil {
		t.Fatalf("NewTelegramNotifierWithEndpoint: %v", err)
	}

	if err := n.Notify(context.Background(), "Đơn mới ord-1"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.sent) != 1 || fake.sent[0] != "42:Đơn mới ord-1" {
		t.Fatalf("unexpected messages: %v", fake.sent)
	}
}

func TestTelegramNotifierRequiresConfig(t *testing.T) {
	if _, err := NewTelegramNotifier("", 42); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewTelegramNotifier("token", 0); err == nil {
		t.Fatal("expected error for empty chat id")
	}
}

func TestTelegramNotifierCancelledContext(t *testing.T) {
	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	n, err := NewTelegramNotifierWithEndpoint("token", srv.URL+"/bot%s/%s", 42)
	if err != nil {
		t.Fatalf("NewTelegramNotifierWithEndpoint: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, "x"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
