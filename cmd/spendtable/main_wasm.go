//go:build js && wasm

// Command spendtable is the WebAssembly build of the spending table
// filters. It registers addToSelectors, selectOpt and updateTotal on the
// global object and then blocks.
package main

import (
	"errors"
	"fmt"
	"syscall/js"

	"spending/internal/spendtable"
	"spending/internal/spendtable/jsdom"
)

type page struct {
	table *spendtable.Table
}

// bind returns the table, re-reading the rows from the document.
func (p *page) bind() (*spendtable.Table, error) {
	if p.table == nil {
		t, err := spendtable.New(jsdom.Global(), spendtable.DefaultOptions())
		if err != nil {
			return nil, err
		}
		p.table = t
		return t, nil
	}
	return p.table, p.table.Refresh()
}

func (p *page) addToSelectors(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail(errors.New("addToSelectors(id, category) needs two arguments"))
	}
	t, err := p.bind()
	if err != nil {
		return fail(err)
	}
	added, err := t.AddToSelectors(args[0].String(), args[1].String())
	if err != nil {
		return fail(err)
	}
	out := make([]any, len(added))
	for i, v := range added {
		out[i] = v
	}
	return js.ValueOf(out)
}

// selectOpt accepts the select element itself or the id of the select or
// its container.
func (p *page) selectOpt(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail(errors.New("selectOpt(element, category) needs two arguments"))
	}
	t, err := p.bind()
	if err != nil {
		return fail(err)
	}

	var sel spendtable.Select
	if args[0].Type() == js.TypeString {
		sel, err = t.Dropdown(args[0].String())
		if err != nil {
			return fail(err)
		}
	} else {
		s, ok := spendtable.AsSelect(jsdom.Wrap(args[0]))
		if !ok {
			return fail(fmt.Errorf("selectOpt: %w", spendtable.ErrElementNotFound))
		}
		sel = s
	}

	total, err := t.SelectOpt(sel, args[1].String())
	if err != nil {
		return fail(err)
	}
	return totalValue(total)
}

func (p *page) updateTotal(js.Value, []js.Value) any {
	t, err := p.bind()
	if err != nil {
		return fail(err)
	}
	total, err := t.UpdateTotal()
	if err != nil {
		return fail(err)
	}
	return totalValue(total)
}

func totalValue(t spendtable.Total) any {
	if t.NaN {
		return js.Global().Get("NaN")
	}
	return js.ValueOf(float64(t.Sum))
}

func fail(err error) any {
	js.Global().Get("console").Call("error", "spendtable: "+err.Error())
	return js.Null()
}

func main() {
	p := &page{}
	global := js.Global()
	global.Set("addToSelectors", js.FuncOf(p.addToSelectors))
	global.Set("selectOpt", js.FuncOf(p.selectOpt))
	global.Set("updateTotal", js.FuncOf(p.updateTotal))
	select {}
}
