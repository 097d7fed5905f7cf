package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

var testProfile = model.BusinessProfile{
	ShopName: "Dhaka Travels",
	Address:  "Motijheel",
	Phone:    "01700000000",
}

func TestSummarize(t *testing.T) {
	records := []model.Record{
		{Status: model.StatusDelivered, TotalAmount: 1000, DueAmount: 0},
		{Status: model.StatusPending, TotalAmount: 2000, DueAmount: 500},
		{Status: model.StatusPending, TotalAmount: 1500, DueAmount: 1500},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Delivered)
	assert.Equal(t, float64(4500), s.TotalBilled)
	assert.Equal(t, float64(2000), s.TotalDue)
}

func TestSummarizeEmptySet(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestInvoice(t *testing.T) {
	record := model.Record{
		SerialNo:      "12",
		PCCNumber:     "AB1234567",
		PCCHolderName: "Rahim Uddin",
		TotalAmount:   12500,
		PaidAmount:    2500,
		DueAmount:     10000,
		Status:        model.StatusPending,
		ServiceType:   model.ServiceUrgent,
		EntryDate:     "2024-01-02",
	}

	var buf bytes.Buffer
	require.NoError(t, Invoice(&buf, record, testProfile))

	html := buf.String()
	assert.Contains(t, html, "Dhaka Travels")
	assert.Contains(t, html, "AB1234567")
	assert.Contains(t, html, "TK 12500")
	assert.Contains(t, html, "(DUE)")
	// Empty receiver renders as pending.
	assert.Contains(t, html, "PENDING")
}

func TestStatement(t *testing.T) {
	records := []model.Record{
		{SerialNo: "1", PCCHolderName: "Rahim", PCCNumber: "AB1", Status: model.StatusDelivered, TotalAmount: 1000, DueAmount: 0, EntryDate: "2024-01-01"},
		{SerialNo: "2", PCCHolderName: "Karim", PCCNumber: "CD2", Status: model.StatusPending, TotalAmount: 2000, DueAmount: 700, EntryDate: "2024-01-02"},
	}

	var buf bytes.Buffer
	require.NoError(t, Statement(&buf, records, testProfile))

	html := buf.String()
	assert.Contains(t, html, "COLLECTED")
	assert.Contains(t, html, "Total Files: 2")
	assert.Contains(t, html, "TK 700")
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	records := []model.Record{
		{SerialNo: "1", PCCNumber: "AB1", PCCHolderName: "Rahim", TotalAmount: 1500, PaidAmount: 1000, DueAmount: 500, Status: model.StatusPending, EntryDate: "2024-01-05", ReceivedBy: ""},
		{SerialNo: "2", PCCNumber: "CD2", PCCHolderName: "Karim", TotalAmount: 2000, PaidAmount: 2000, DueAmount: 0, Status: model.StatusDelivered, EntryDate: "2024-01-06", ReceivedBy: "Self"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Passport", rows[0][1])
	assert.Equal(t, "AB1", rows[1][1])
	assert.Equal(t, "N/A", rows[1][9])
	assert.Equal(t, "Self", rows[2][9])
	assert.Equal(t, "Delivered", rows[2][7])
}
