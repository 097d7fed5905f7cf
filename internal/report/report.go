// Package report renders single-record invoices, batch statements and xlsx
// exports. It receives already-normalized records and performs no business
// logic beyond pure reductions.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

// Summary contains the per-batch report reductions.
type Summary struct {
	Count       int     `json:"count"`
	Delivered   int     `json:"delivered"`
	TotalBilled float64 `json:"totalBilled"`
	TotalDue    float64 `json:"totalDue"`
}

// Summarize computes the batch summary; an empty set yields all zeros.
func Summarize(records []model.Record) Summary {
	var s Summary
	s.Count = len(records)
	for _, r := range records {
		if r.Status == model.StatusDelivered {
			s.Delivered++
		}
		s.TotalBilled += r.TotalAmount
		s.TotalDue += r.DueAmount
	}
	return s
}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice #{{.Record.SerialNo}}</title></head>
<body>
<h1>{{.Profile.ShopName}}</h1>
<p>{{.Profile.Address}} &middot; {{.Profile.Phone}}</p>
<h2>Official Invoice &mdash; Serial #{{.Record.SerialNo}}</h2>
<table>
<tr><td>Client</td><td>{{.Record.PCCHolderName}}</td></tr>
<tr><td>Passport ID</td><td>{{.Record.PCCNumber}}</td></tr>
<tr><td>Reference</td><td>{{if .Record.CustomerName}}{{.Record.CustomerName}}{{else}}N/A{{end}}</td></tr>
<tr><td>Entry Date</td><td>{{.Record.EntryDate}}</td></tr>
<tr><td>Status</td><td>{{.Record.Status}}</td></tr>
<tr><td>Service Class</td><td>{{.Record.ServiceType}}</td></tr>
<tr><td>Received By</td><td>{{if .Record.ReceivedBy}}{{.Record.ReceivedBy}}{{else}}PENDING{{end}}</td></tr>
</table>
<table>
<tr><td>Total Fee</td><td>TK {{money .Record.TotalAmount}}</td></tr>
<tr><td>Advance Paid</td><td>TK {{money .Record.PaidAmount}}</td></tr>
<tr><td>Final Balance</td><td>TK {{money .Record.DueAmount}} {{if eq .Record.DueAmount 0.0}}(PAID){{else}}(DUE){{end}}</td></tr>
</table>
<p>OFFICIAL DOCUMENT &middot; SYSTEM VERIFIED &middot; {{.Profile.Phone}}</p>
</body>
</html>
`))

var statementTemplate = template.Must(template.New("statement").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Statement</title></head>
<body>
<h1>{{.Profile.ShopName}}</h1>
<p>{{.Profile.Address}} &middot; {{.Profile.Phone}}</p>
<h2>Statement &mdash; {{.Date}}</h2>
<p>Total Files: {{.Summary.Count}} &middot; Completed: {{.Summary.Delivered}} &middot;
Total Billed: TK {{money .Summary.TotalBilled}} &middot; Total Due: TK {{money .Summary.TotalDue}}</p>
<table border="1">
<tr><th>SL</th><th>Client</th><th>Passport</th><th>Reference</th><th>Entry</th><th>Status</th><th>Balance</th></tr>
{{range .Records}}<tr>
<td>#{{.SerialNo}}</td>
<td>{{.PCCHolderName}}</td>
<td>{{.PCCNumber}}</td>
<td>{{if .CustomerName}}{{.CustomerName}}{{else}}N/A{{end}}</td>
<td>{{.EntryDate}}</td>
<td>{{if eq .Status "Delivered"}}COLLECTED{{else}}PENDING{{end}}</td>
<td>TK {{money .DueAmount}}</td>
</tr>{{end}}
</table>
<p>Aggregate Balance Due: TK {{money .Summary.TotalDue}}</p>
<p>SYSTEM GENERATED AUDIT REPORT &middot; {{.Profile.Phone}}</p>
</body>
</html>
`))

// Invoice renders a single-record invoice as HTML.
func Invoice(w io.Writer, record model.Record, profile model.BusinessProfile) error {
	data := struct {
		Record  model.Record
		Profile model.BusinessProfile
	}{record, profile}
	if err := invoiceTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return nil
}

// Statement renders a batch statement for the given records as HTML.
func Statement(w io.Writer, records []model.Record, profile model.BusinessProfile) error {
	data := struct {
		Records []model.Record
		Profile model.BusinessProfile
		Summary Summary
		Date    string
	}{records, profile, Summarize(records), time.Now().Format("2006-01-02")}
	if err := statementTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	return nil
}

// workbookHeaders is the column set of the xlsx export. Importing a file
// produced here resolves every column through the importer's alias table.
var workbookHeaders = []any{"SL", "Passport", "Name", "Reference", "Total", "Paid", "Due", "Status", "Date", "Receiver"}

// WriteWorkbook streams the record set as an xlsx workbook.
func WriteWorkbook(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Records"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &workbookHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		receiver := r.ReceivedBy
		if receiver == "" {
			receiver = "N/A"
		}
		row := []any{
			r.SerialNo, r.PCCNumber, r.PCCHolderName, r.CustomerName,
			r.TotalAmount, r.PaidAmount, r.DueAmount,
			string(r.Status), r.EntryDate, receiver,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
