package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"spending/internal/core"
	"spending/internal/spendtable"
)

var templateFuncs = template.FuncMap{
	"monthPath": monthPath,
	"nok":       core.FormatNOK,
}

// parseMonthPath reads the {year} and {month} path values. ok is false
// when they do not name a valid month.
func parseMonthPath(r *http.Request) (core.Date, bool) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return core.Date{}, false
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		return core.Date{}, false
	}
	d := core.NewDate(year, time.Month(month), 0)
	if d.ValidateMonth() != nil {
		return core.Date{}, false
	}
	return d, true
}

// monthPath is the spending page URL of d's month.
func monthPath(d core.Date) string {
	return fmt.Sprintf("/spending/%04d/%02d", d.Year, int(d.Month))
}

// totalText renders the server side total the way the page script does.
func totalText(purchases []core.Purchase) string {
	return spendtable.Total{Sum: int64(core.Total(purchases))}.String()
}

type purchaseJSON struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	NOK      int    `json:"nok"`
	Account  string `json:"account"`
	Category string `json:"category"`
	Location string `json:"location"`
	Vendor   string `json:"vendor"`
}

func toPurchaseJSON(p core.Purchase) purchaseJSON {
	return purchaseJSON{
		ID:       p.ID,
		Date:     p.Date.Stamp(),
		NOK:      p.NOK,
		Account:  p.Account,
		Category: p.Category,
		Location: p.Location,
		Vendor:   p.Vendor,
	}
}

type monthJSON struct {
	Month     string         `json:"month"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Purchases []purchaseJSON `json:"purchases"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}
