package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gamertype/portrait-api/internal/gate"
)

func TestWatchAgainstAPI(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gate/create", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok1","botLink":"https://t.me/gamertype_bot?start=tok1"}`))
	})
	mux.HandleFunc("/api/gate/status", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok1" {
			w.Write([]byte(`{"status":"expired"}`))
			return
		}
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"status":"pending"}`))
			return
		}
		w.Write([]byte(`{"status":"unlocked"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newAPIClient(srv.URL, time.Second)
	ctx := context.Background()

	created, err := client.CreateGate(ctx, "76561197960287930", "en")
	if err != nil {
		t.Fatalf("CreateGate: %v", err)
	}
	if created.Token != "tok1" || !strings.HasSuffix(created.BotLink, "start=tok1") {
		t.Fatalf("unexpected create response %+v", created)
	}

	w := gate.NewWatcher(gate.WatcherConfig{Status: client.GateStatus, Interval: time.Millisecond})
	res, err := w.Watch(ctx, created.Token)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if res.FailOpen || res.Polls != 3 {
		t.Errorf("result = %+v, want 3 polls without fail-open", res)
	}
}

func TestCreateGateStoreFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"botLink":"https://t.me/gamertype_bot","error":true}`))
	}))
	defer srv.Close()

	out, err := newAPIClient(srv.URL, time.Second).CreateGate(context.Background(), "76561197960287930", "ru")
	if err == nil {
		t.Fatal("expected error")
	}
	if out == nil || out.BotLink != "https://t.me/gamertype_bot" {
		t.Errorf("bot link should survive the failure, got %+v", out)
	}
}

func TestGateStatusUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newAPIClient(url, 100*time.Millisecond).GateStatus(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected transport error")
	}
}
