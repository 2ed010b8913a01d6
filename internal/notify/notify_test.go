package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spending/internal/core"
	applog "spending/internal/log"
	"spending/internal/storage/memory"
)

func TestNextNotifyTime(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{"later today", time.Date(2024, 3, 5, 10, 30, 0, 0, loc), 20, time.Date(2024, 3, 5, 20, 0, 0, 0, loc)},
		{"passed", time.Date(2024, 3, 5, 21, 0, 0, 0, loc), 20, time.Date(2024, 3, 6, 20, 0, 0, 0, loc)},
		{"exactly now", time.Date(2024, 3, 5, 20, 0, 0, 0, loc), 20, time.Date(2024, 3, 6, 20, 0, 0, 0, loc)},
		{"month end", time.Date(2024, 3, 31, 23, 0, 0, 0, loc), 0, time.Date(2024, 4, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextNotifyTime(tt.now, tt.hour); !got.Equal(tt.want) {
				t.Errorf("nextNotifyTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplateReport(t *testing.T) {
	month := core.NewDate(2024, time.March, 0)
	got, err := templateReport(month, 175, map[string]int{"transport": 50, "food": 125}, "")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	want := "Spending so far in March: 175 NOK\nspending in categories:\nfood: 125 NOK\ntransport: 50 NOK"
	if got != want {
		t.Errorf("report =\n%q\nwant\n%q", got, want)
	}

	got, _ = templateReport(month, 0, nil, "https://finances.example/spending/2024/03")
	want = "Spending so far in March: 0 NOK\nspending in categories:\nhttps://finances.example/spending/2024/03"
	if got != want {
		t.Errorf("report =\n%q\nwant\n%q", got, want)
	}
}

func TestMonthURL(t *testing.T) {
	if got := monthURL("", core.NewDate(2024, time.March, 0)); got != "" {
		t.Errorf("expected empty url, got %q", got)
	}
	if got := monthURL("https://x.example/", core.NewDate(2024, time.March, 0)); got != "https://x.example/spending/2024/03" {
		t.Errorf("unexpected url %q", got)
	}
}

func TestNewRejectsBadHour(t *testing.T) {
	for _, h := range []int{-1, 24} {
		if _, err := New(Config{NotifyHour: h}, memory.New(), nil); err == nil {
			t.Errorf("expected error for hour %d", h)
		}
	}
}

func TestReportSendsToPushover(t *testing.T) {
	var got pushoverMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":1,"request":"abc"}`))
	}))
	defer srv.Close()

	store := memory.New(
		core.Purchase{ID: "1", Date: core.NewDate(2024, time.March, 1), NOK: 100, Category: "food"},
		core.Purchase{ID: "2", Date: core.NewDate(2024, time.March, 2), NOK: 50, Category: "transport"},
		core.Purchase{ID: "3", Date: core.NewDate(2024, time.February, 2), NOK: 999, Category: "food"},
	)
	n, err := New(Config{User: "u", Token: "t", APIURL: srv.URL, NotifyHour: 20, Categories: []string{"food"}},
		store, applog.New(applog.Config{Output: &bytes.Buffer{}}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	n.now = func() time.Time { return time.Date(2024, time.March, 10, 20, 0, 0, 0, time.Local) }

	if err := n.Report(context.Background()); err != nil {
		t.Fatalf("report: %v", err)
	}
	if got.User != "u" || got.Token != "t" {
		t.Errorf("unexpected credentials: %+v", got)
	}
	if want := "Spending so far in March: 150 NOK\nspending in categories:\nfood: 100 NOK"; got.Message != want {
		t.Errorf("message = %q, want %q", got.Message, want)
	}
}

func TestSendErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http status", http.StatusBadRequest, `{"status":0}`, "got status 400"},
		{"pushover status", http.StatusOK, `{"status":0,"errors":["user key is invalid"]}`, "user key is invalid"},
		{"bad body", http.StatusOK, `nope`, "decoding response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			n, _ := New(Config{APIURL: srv.URL}, memory.New(), applog.New(applog.Config{Output: &bytes.Buffer{}}))
			err := n.send(context.Background(), "hi")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("send() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	n, _ := New(Config{NotifyHour: 3}, memory.New(), applog.New(applog.Config{Output: &bytes.Buffer{}}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Run(ctx); err != context.Canceled {
		t.Fatalf("Run returned %v", err)
	}
}
