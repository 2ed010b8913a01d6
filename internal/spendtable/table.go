package spendtable

import (
	"errors"
	"fmt"
	"slices"
)

// Hidden is the display value of a filtered-out row.
const Hidden = "none"

var (
	ErrElementNotFound = errors.New("element not found")
	ErrMissingCell     = errors.New("row has no cell of category")
)

// Options names the markup the table is bound to.
type Options struct {
	TableID      string // element wrapping the table, "spending-table"
	BodySelector string // table body inside it, "tbody"
	RowSelector  string // rows inside the body, "tr"
	TotalID      string // total display, "spending-total"
	AmountClass  string // amount cell category, "nok-cell"
	AllValue     string // dropdown value that shows every row, "all"
}

// DefaultOptions returns the ids and classes used by the spending page.
func DefaultOptions() Options {
	return Options{
		TableID:      "spending-table",
		BodySelector: "tbody",
		RowSelector:  "tr",
		TotalID:      "spending-total",
		AmountClass:  "nok-cell",
		AllValue:     "all",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TableID == "" {
		o.TableID = d.TableID
	}
	if o.BodySelector == "" {
		o.BodySelector = d.BodySelector
	}
	if o.RowSelector == "" {
		o.RowSelector = d.RowSelector
	}
	if o.TotalID == "" {
		o.TotalID = d.TotalID
	}
	if o.AmountClass == "" {
		o.AmountClass = d.AmountClass
	}
	if o.AllValue == "" {
		o.AllValue = d.AllValue
	}
	return o
}

// Table caches the rows and the total display of one spending table.
type Table struct {
	doc   Document
	opts  Options
	rows  []Element
	total Element
}

// New binds a Table to doc. Empty fields of opts take their defaults.
func New(doc Document, opts Options) (*Table, error) {
	t := &Table{doc: doc, opts: opts.withDefaults()}
	if err := t.Refresh(); err != nil {
		return nil, err
	}
	return t, nil
}

// Options returns the resolved options.
func (t *Table) Options() Options {
	return t.opts
}

// Refresh re-queries the rows and the total display. Call it after rows
// were added to or removed from the table.
func (t *Table) Refresh() error {
	table := t.doc.GetElementByID(t.opts.TableID)
	if table == nil {
		return fmt.Errorf("table #%s: %w", t.opts.TableID, ErrElementNotFound)
	}
	body := table.QuerySelector(t.opts.BodySelector)
	if body == nil {
		return fmt.Errorf("%s in #%s: %w", t.opts.BodySelector, t.opts.TableID, ErrElementNotFound)
	}
	total := t.doc.GetElementByID(t.opts.TotalID)
	if total == nil {
		return fmt.Errorf("total #%s: %w", t.opts.TotalID, ErrElementNotFound)
	}
	t.rows = body.QuerySelectorAll(t.opts.RowSelector)
	t.total = total
	return nil
}

// Rows returns the cached rows in table order.
func (t *Table) Rows() []Element {
	return slices.Clone(t.rows)
}

// Visible reports whether row is shown.
func Visible(row Element) bool {
	return row.Display() != Hidden
}

// Dropdown resolves id to a select element. id may name the select itself
// or a container holding it.
func (t *Table) Dropdown(id string) (Select, error) {
	el := t.doc.GetElementByID(id)
	if el == nil {
		return nil, fmt.Errorf("dropdown #%s: %w", id, ErrElementNotFound)
	}
	if sel, ok := AsSelect(el); ok {
		return sel, nil
	}
	if sel, ok := AsSelect(el.QuerySelector("select")); ok {
		return sel, nil
	}
	return nil, fmt.Errorf("select in #%s: %w", id, ErrElementNotFound)
}

// ColumnValues returns the distinct texts of the first category cell of
// every row, in first-seen order.
func (t *Table) ColumnValues(category string) ([]string, error) {
	var values []string
	for i, row := range t.rows {
		cell, err := rowCell(i, row, category)
		if err != nil {
			return nil, err
		}
		text := cell.TextContent()
		if slices.Contains(values, text) {
			continue
		}
		values = append(values, text)
	}
	return values, nil
}

// PopulateSelector appends one option per distinct category value that the
// dropdown does not offer yet. It returns the values it added.
func (t *Table) PopulateSelector(sel Select, category string) ([]string, error) {
	values, err := t.ColumnValues(category)
	if err != nil {
		return nil, err
	}
	present := sel.OptionValues()
	var added []string
	for _, v := range values {
		if slices.Contains(present, v) {
			continue
		}
		sel.AddOption(v, v)
		present = append(present, v)
		added = append(added, v)
	}
	return added, nil
}

// AddToSelectors populates the dropdown identified by id from the category
// column.
func (t *Table) AddToSelectors(id, category string) ([]string, error) {
	sel, err := t.Dropdown(id)
	if err != nil {
		return nil, err
	}
	return t.PopulateSelector(sel, category)
}

// SelectOpt filters on the dropdown's current value.
func (t *Table) SelectOpt(sel Select, category string) (Total, error) {
	return t.Filter(sel.SelectedValue(), category)
}

// Filter shows the rows whose category cell text equals value and hides
// the rest; the all value shows every row. The total is recomputed after
// every row was updated.
//
// A row without the category cell stops the scan with ErrMissingCell:
// earlier rows keep their new visibility and the total is left untouched.
func (t *Table) Filter(value, category string) (Total, error) {
	for i, row := range t.rows {
		if value == t.opts.AllValue {
			row.SetDisplay("")
			continue
		}
		cell, err := rowCell(i, row, category)
		if err != nil {
			return Total{}, err
		}
		if cell.TextContent() != value {
			row.SetDisplay(Hidden)
		} else {
			row.SetDisplay("")
		}
	}
	return t.UpdateTotal()
}

// Sum adds the amount cells of the visible rows without touching the display.
func (t *Table) Sum() (Total, error) {
	var total Total
	for i, row := range t.rows {
		if !Visible(row) {
			continue
		}
		cell, err := rowCell(i, row, t.opts.AmountClass)
		if err != nil {
			return Total{}, err
		}
		total = total.Add(cell.TextContent())
	}
	return total, nil
}

// UpdateTotal writes the sum of the visible rows into the total display.
func (t *Table) UpdateTotal() (Total, error) {
	total, err := t.Sum()
	if err != nil {
		return Total{}, err
	}
	t.total.SetTextContent(total.String())
	return total, nil
}

func rowCell(i int, row Element, category string) (Element, error) {
	cells := row.ElementsByClassName(category)
	if len(cells) == 0 {
		return nil, fmt.Errorf("row %d, %q: %w", i, category, ErrMissingCell)
	}
	return cells[0], nil
}
