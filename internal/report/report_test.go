package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spending/internal/core"
)

var march = core.NewDate(2024, time.March, 0)

func purchases() []core.Purchase {
	return []core.Purchase{
		{ID: "p1", Date: core.NewDate(2024, time.March, 2), NOK: 100, Account: "main", Category: "food", Vendor: "Rema"},
		{ID: "p2", Date: core.NewDate(2024, time.March, 5), NOK: 50, Account: "credit", Category: "transport", Vendor: "Ruter"},
		{ID: "p3", Date: core.NewDate(2024, time.March, 9), NOK: 25, Account: "main", Category: "food", Vendor: "Kiwi"},
	}
}

func TestPrintPurchases(t *testing.T) {
	var buf bytes.Buffer
	PrintPurchases(&buf, march, purchases(), Options{})
	out := buf.String()

	assert.Contains(t, out, "Spending in March 2024: 3 purchases")
	assert.Contains(t, out, "Ruter")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "175")
	assert.NotContains(t, out, "Filter:")
}

func TestPrintPurchasesFiltered(t *testing.T) {
	var buf bytes.Buffer
	PrintPurchases(&buf, march, purchases(), Options{Category: "food"})
	out := buf.String()

	assert.Contains(t, out, "2 purchases")
	assert.Contains(t, out, "Filter: category food")
	assert.Contains(t, out, "125")
	assert.NotContains(t, out, "Ruter")
}

func TestSelect(t *testing.T) {
	got := Select(purchases(), Options{Category: "food", Account: "main"})
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)

	assert.Len(t, Select(purchases(), Options{}), 3)
	assert.Empty(t, Select(purchases(), Options{Account: "savings"}))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, core.Summarize(march, purchases()))
	out := buf.String()

	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "71.4%")
	assert.Contains(t, out, "3 purchases")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("food")), bytes.Index(buf.Bytes(), []byte("transport")))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, march, purchases()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2024-03"}, f.GetSheetList())
	rows, err := f.GetRows("2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Date", "Vendor", "Category", "Location", "Account", "NOK", "ID"}, rows[0])
	assert.Equal(t, "2024-03-05", rows[2][0])
	assert.Equal(t, "Ruter", rows[2][1])
	assert.Equal(t, "50", rows[2][5])
	assert.Equal(t, "Total", rows[4][4])
	assert.Equal(t, "175", rows[4][5])
}

func TestWriteXLSXEmptyMonth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, march, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows("2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[1][5])
}
