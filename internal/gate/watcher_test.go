package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamertype/portrait-api/internal/models"
)

type pollStep struct {
	resp models.GateStatusResponse
	err  error
}

func scripted(steps []pollStep) (StatusFunc, *int) {
	calls := 0
	return func(ctx context.Context, token string) (models.GateStatusResponse, error) {
		i := calls
		calls++
		if i >= len(steps) {
			i = len(steps) - 1
		}
		return steps[i].resp, steps[i].err
	}, &calls
}

var (
	pending  = pollStep{resp: models.GateStatusResponse{Status: models.GateStatusPending}}
	unlocked = pollStep{resp: models.GateStatusResponse{Status: models.GateStatusUnlocked}}
	expired  = pollStep{resp: models.GateStatusResponse{Status: models.GateStatusExpired}}
	degraded = pollStep{resp: models.GateStatusResponse{Status: models.GateStatusUnlocked, Degraded: true}}
	netErr   = pollStep{err: errors.New("connection reset")}
)

func TestWatcher(t *testing.T) {
	tests := []struct {
		name         string
		steps        []pollStep
		wantPolls    int
		wantFailOpen bool
	}{
		{"unlock after pending", []pollStep{pending, pending, unlocked}, 3, false},
		{"single blip does not unlock", []pollStep{netErr, pending, degraded, pending, unlocked}, 5, false},
		{"three consecutive failures fail open", []pollStep{pending, netErr, degraded, netErr}, 4, true},
		{"pending resets the streak", []pollStep{netErr, netErr, pending, netErr, netErr, unlocked}, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, calls := scripted(tt.steps)
			w := NewWatcher(WatcherConfig{Status: status, Interval: time.Millisecond})

			res, err := w.Watch(context.Background(), "tok")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *calls != tt.wantPolls || res.Polls != tt.wantPolls {
				t.Errorf("polls = %d, want %d", *calls, tt.wantPolls)
			}
			if res.FailOpen != tt.wantFailOpen {
				t.Errorf("failOpen = %v, want %v", res.FailOpen, tt.wantFailOpen)
			}
		})
	}
}

func TestWatcher_ReissuesExpiredToken(t *testing.T) {
	var seen []string
	status := func(ctx context.Context, token string) (models.GateStatusResponse, error) {
		seen = append(seen, token)
		if token == "old" {
			return expired.resp, nil
		}
		return unlocked.resp, nil
	}
	w := NewWatcher(WatcherConfig{
		Status:   status,
		Reissue:  func(ctx context.Context) (string, error) { return "new", nil },
		Interval: time.Millisecond,
	})

	res, err := w.Watch(context.Background(), "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "new" || len(seen) != 2 {
		t.Errorf("result %+v, polled %v", res, seen)
	}
}

func TestWatcher_StopsOnContext(t *testing.T) {
	status, _ := scripted([]pollStep{pending})
	w := NewWatcher(WatcherConfig{Status: status, Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := w.Watch(ctx, "tok"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
