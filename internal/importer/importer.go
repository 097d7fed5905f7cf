// Package importer maps loosely structured spreadsheet rows onto canonical
// records. Column names, casing, date and number encodings all vary between
// source ledgers; each canonical field is resolved through an ordered alias
// table and every value is funneled through the normalizer.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/pcctrack/pcc-tracker/internal/model"
	"github.com/pcctrack/pcc-tracker/internal/normalize"
)

// Row is one spreadsheet row keyed by its original column headers.
type Row map[string]any

// Header aliases seen across ledgers produced by earlier versions of the
// tracker and by hand-maintained spreadsheets. First existing alias wins.
var (
	serialAliases   = []string{"sl", "serial", "id", "serialno"}
	passportAliases = []string{"passport", "pcc number", "passport number", "pccnumber"}
	holderAliases   = []string{"name", "holder name", "client name", "pccholdername"}
	customerAliases = []string{"reference", "customer", "mobile", "customername"}
	totalAliases    = []string{"total", "fee", "amount", "totalamount"}
	paidAliases     = []string{"paid", "paid amount", "advance", "paidamount"}
	statusAliases   = []string{"status", "delivery status"}
	receiverAliases = []string{"receiver", "received by", "receivedby"}
	dateAliases     = []string{"date", "entry date", "entrydate"}
)

// Normalize converts rows into records in source order. Rows whose resolved
// document identifier is empty are dropped: a passport or PCC number is the
// minimum viable record. Serial numbers are copied as-is, never re-allocated.
func Normalize(rows []Row, now time.Time) []model.Record {
	records := make([]model.Record, 0, len(rows))
	createdAt := now.UTC().Format(time.RFC3339)

	for _, row := range rows {
		pccNumber := strings.ToUpper(normalize.Text(resolve(row, passportAliases)))
		if pccNumber == "" {
			continue
		}

		total := normalize.Money(resolve(row, totalAliases))
		paid := normalize.Money(resolve(row, paidAliases))

		records = append(records, model.Record{
			ID:            uuid.NewString(),
			SerialNo:      normalize.Text(resolve(row, serialAliases)),
			PCCNumber:     pccNumber,
			PCCHolderName: normalize.Text(resolve(row, holderAliases)),
			CustomerName:  normalize.Text(resolve(row, customerAliases)),
			TotalAmount:   total,
			PaidAmount:    paid,
			DueAmount:     total - paid,
			Status:        normalize.Status(normalize.Text(resolve(row, statusAliases))),
			ServiceType:   model.ServiceNormal,
			ReceivedBy:    normalize.Text(resolve(row, receiverAliases)),
			EntryDate:     normalize.Date(resolve(row, dateAliases), now),
			CreatedAt:     createdAt,
		})
	}

	return records
}

// resolve returns the value of the first alias present among the row's keys,
// matched case-insensitively with surrounding whitespace ignored.
func resolve(row Row, aliases []string) any {
	for _, alias := range aliases {
		for key, v := range row {
			if strings.EqualFold(strings.TrimSpace(key), alias) {
				return v
			}
		}
	}
	return nil
}

// ReadWorkbook decodes the first sheet of an xlsx stream into rows keyed by
// the header row. It only decodes the container; all semantic normalization
// happens in Normalize.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(cells) < 2 {
		return nil, nil
	}

	headers := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := Row{}
		for i, header := range headers {
			if strings.TrimSpace(header) == "" || i >= len(line) {
				continue
			}
			row[header] = line[i]
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows, nil
}
