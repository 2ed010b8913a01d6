package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"spending/internal/core"
	"spending/internal/log"
	"spending/internal/ports"
)

type spendingPage struct {
	Title     string
	Month     core.Date
	Prev      core.Date
	Next      core.Date
	Purchases []core.Purchase
	Total     string
}

type purchasePage struct {
	Title    string
	Purchase core.Purchase
	Month    core.Date
}

// handleIndex redirects to the current month.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, monthPath(core.DateOf(s.now())), http.StatusFound)
}

func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month, ok := parseMonthPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	purchases, err := s.monthPurchases(ctx, month)
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Spending page failed", err, log.OpList,
			log.NewFields().WithMonth(month.Year, int(month.Month)))
		http.Error(w, "could not load purchases", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "spending.html", spendingPage{
		Title:     "Spending in " + month.MonthOnly().String(),
		Month:     month,
		Prev:      month.SubMonth(),
		Next:      month.AddMonth(),
		Purchases: purchases,
		Total:     totalText(purchases),
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	s.render(w, r, "purchase.html", purchasePage{
		Title:    p.Vendor + " " + p.Date.Stamp(),
		Purchase: p,
		Month:    p.Date.MonthOnly(),
	})
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month, ok := parseMonthPath(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "invalid month")
		return
	}
	purchases, err := s.monthPurchases(ctx, month)
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Purchase listing failed", err, log.OpList,
			log.NewFields().WithMonth(month.Year, int(month.Month)))
		writeJSONError(w, http.StatusInternalServerError, "could not load purchases")
		return
	}

	resp := monthJSON{
		Month:     month.FirstOfMonth().Stamp()[:7],
		Count:     len(purchases),
		Total:     core.Total(purchases),
		Purchases: make([]purchaseJSON, 0, len(purchases)),
	}
	for _, p := range purchases {
		resp.Purchases = append(resp.Purchases, toPurchaseJSON(p))
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, toPurchaseJSON(p))
}

// handleAPIDelete removes a purchase and drops the cached listing of its month.
func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	err := s.store.DeletePurchase(ctx, p.ID)
	if errors.Is(err, ports.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "purchase not found")
		return
	}
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Delete purchase failed", err, log.OpDelete,
			log.NewFields().WithPurchase(p.ID, p.Account, p.NOK))
		writeJSONError(w, http.StatusInternalServerError, "could not delete purchase")
		return
	}
	s.invalidateMonth(p.Date)
	log.FromContext(ctx).InfoContext(ctx, "Purchase deleted",
		log.NewFields().WithOperation(log.OpDelete).WithPurchase(p.ID, p.Account, p.NOK).ToSlice()...)
	w.WriteHeader(http.StatusNoContent)
}

// lookup loads the purchase named by the {id} path value, answering 404 or
// 500 itself when it cannot.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, api bool) (core.Purchase, bool) {
	ctx := r.Context()
	id := r.PathValue("id")
	p, err := s.store.GetPurchase(ctx, id)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		if api {
			writeJSONError(w, http.StatusNotFound, "purchase not found")
		} else {
			http.NotFound(w, r)
		}
		return core.Purchase{}, false
	case err != nil:
		log.FromContext(ctx).LogError(ctx, "Read purchase failed", err, log.OpRead,
			log.NewFields().WithPurchase(id, "", 0))
		if api {
			writeJSONError(w, http.StatusInternalServerError, "could not load purchase")
		} else {
			http.Error(w, "could not load purchase", http.StatusInternalServerError)
		}
		return core.Purchase{}, false
	}
	return p, true
}

// render executes a template into a buffer so a failure still yields a
// clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		ctx := r.Context()
		log.FromContext(ctx).LogError(ctx, "Template execution failed", err, log.OpRender,
			log.LogFields{"template": name})
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the store when it can be pinged.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "store": "ok"}
	status, code := "ready", http.StatusOK

	if p, ok := s.store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}
	_ = writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}
