package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// CSVLedgerExporter writes one row per projected year with every ledger column.
type CSVLedgerExporter struct{}

func (c CSVLedgerExporter) Name() string { return "csv" }

func (c CSVLedgerExporter) Format(doc *domain.Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"year", "age"}
	for _, f := range (domain.YearRecord{}).Figures() {
		header = append(header, f.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range doc.Ledger.Records() {
		row := []string{intToString(r.Year), intToString(r.Age)}
		for _, f := range r.Figures() {
			row = append(row, f.Value.StringFixed(1))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVSummarizer writes the milestone rows: the first year, every fifth year
// after it and the last year.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(doc *domain.Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"year", "age", "personal_balance", "total_investment_assets", "personal_net_assets", "corporate_net_assets"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	records := doc.Ledger.Records()
	for i, r := range records {
		if i%5 != 0 && i != len(records)-1 {
			continue
		}
		row := []string{
			intToString(r.Year),
			intToString(r.Age),
			r.PersonalBalance.StringFixed(1),
			r.TotalInvestmentAssets.StringFixed(1),
			r.PersonalNetAssets.StringFixed(1),
			r.CorporateNetAssets.StringFixed(1),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
