// Package notify sends a daily spending report through Pushover.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"text/template"
	"time"

	"spending/internal/core"
	applog "spending/internal/log"
	"spending/internal/ports"
)

const sendTimeout = 5 * time.Second

var reportTemplate = template.Must(template.New("report").Parse(`Spending so far in {{.Month}}: {{.Total}} NOK
spending in categories:
{{- range .Categories }}
{{.Name}}: {{.NOK}} NOK
{{- end }}
{{- if .URL }}
{{.URL}}
{{- end }}`))

// Config holds the Pushover credentials and report settings.
type Config struct {
	User       string
	Token      string
	APIURL     string
	NotifyHour int
	Categories []string
	// PublicURL is the web server base URL; the month page link is
	// appended to the report when set.
	PublicURL string
}

// Notifier reports the current month's spending once a day.
type Notifier struct {
	cfg    Config
	store  ports.PurchaseLister
	client *http.Client
	logger *applog.Logger
	now    func() time.Time
}

func New(cfg Config, store ports.PurchaseLister, logger *applog.Logger) (*Notifier, error) {
	if cfg.NotifyHour < 0 || cfg.NotifyHour > 23 {
		return nil, fmt.Errorf("notify hour %d invalid - must be between 0 and 23", cfg.NotifyHour)
	}
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentNotifier})
	}
	return &Notifier{
		cfg:    cfg,
		store:  store,
		client: &http.Client{Timeout: sendTimeout},
		logger: logger,
		now:    time.Now,
	}, nil
}

// Run sleeps until the next notify hour, sends the report and repeats
// until ctx is cancelled. Send failures are logged.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		at := nextNotifyTime(n.now(), n.cfg.NotifyHour)
		n.logger.InfoContext(ctx, "Waiting to send a spending report", "at", at.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(at))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if err := n.Report(ctx); err != nil {
				n.logger.LogError(ctx, "Failed to send spending report", err, applog.OpNotify, nil)
			}
		}
	}
}

// Report builds and sends the report for the current month.
func (n *Notifier) Report(ctx context.Context) error {
	month := core.DateOf(n.now()).MonthOnly()
	purchases, err := n.store.ListPurchases(ctx, month)
	if err != nil {
		return fmt.Errorf("getting purchases from storage: %w", err)
	}

	msg, err := templateReport(month, core.Total(purchases),
		core.CategoryTotals(n.cfg.Categories, purchases), monthURL(n.cfg.PublicURL, month))
	if err != nil {
		return fmt.Errorf("templating report: %w", err)
	}

	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	n.logger.InfoContext(ctx, "Spending report sent", applog.FieldCount, len(purchases))
	return nil
}

// nextNotifyTime returns hour:00 today, or tomorrow when that has passed.
func nextNotifyTime(now time.Time, hour int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !now.Before(at) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func templateReport(month core.Date, total int, categories map[string]int, url string) (string, error) {
	data := struct {
		Month      time.Month
		Total      int
		Categories []core.CategoryAmount
		URL        string
	}{month.Month, total, sortedCategories(categories), url}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func sortedCategories(totals map[string]int) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(totals))
	for name, nok := range totals {
		out = append(out, core.CategoryAmount{Name: name, NOK: nok})
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func monthURL(base string, month core.Date) string {
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/spending/%04d/%02d", strings.TrimRight(base, "/"), month.Year, int(month.Month))
}

type pushoverMessage struct {
	User    string `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type pushoverResponse struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Errors  []string `json:"errors"`
}

func (n *Notifier) send(ctx context.Context, msg string) error {
	body, err := json.Marshal(pushoverMessage{User: n.cfg.User, Token: n.cfg.Token, Message: msg})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("got status %d", res.StatusCode)
	}

	var resBody pushoverResponse
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resBody.Status != 1 {
		return fmt.Errorf("got status %d from pushover: %v", resBody.Status, resBody.Errors)
	}
	return nil
}
