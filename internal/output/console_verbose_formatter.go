package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// ConsoleVerboseFormatter renders the full year-by-year table via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

type column struct {
	title string
	value func(domain.YearRecord) string
}

var consoleColumns = []column{
	{"Year", func(r domain.YearRecord) string { return intToString(r.Year) }},
	{"Age", func(r domain.YearRecord) string { return intToString(r.Age) }},
	{"Main", func(r domain.YearRecord) string { return FormatManYen(r.MainIncome) }},
	{"Side", func(r domain.YearRecord) string { return FormatManYen(r.SideIncome) }},
	{"Spouse", func(r domain.YearRecord) string { return FormatManYen(r.SpouseIncome) }},
	{"Pension", func(r domain.YearRecord) string { return FormatManYen(r.PensionIncome.Add(r.SpousePensionIncome)) }},
	{"InvInc", func(r domain.YearRecord) string { return FormatManYen(r.InvestmentIncome) }},
	{"Living", func(r domain.YearRecord) string { return FormatManYen(r.LivingExpense) }},
	{"Housing", func(r domain.YearRecord) string { return FormatManYen(r.HousingExpense) }},
	{"Educ", func(r domain.YearRecord) string { return FormatManYen(r.EducationExpense) }},
	{"Other", func(r domain.YearRecord) string { return FormatManYen(r.OtherExpense) }},
	{"Loan", func(r domain.YearRecord) string { return FormatManYen(r.LoanRepayment) }},
	{"Balance", func(r domain.YearRecord) string { return FormatManYen(r.PersonalBalance) }},
	{"Invested", func(r domain.YearRecord) string { return FormatManYen(r.TotalInvestmentAssets) }},
	{"NetAssets", func(r domain.YearRecord) string { return FormatManYen(r.PersonalNetAssets) }},
	{"CorpNet", func(r domain.YearRecord) string { return FormatManYen(r.CorporateNetAssets) }},
}

func (c ConsoleVerboseFormatter) Format(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "LIFE PLAN CASH-FLOW PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(doc.Params()) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	records := doc.Ledger.Records()
	widths := make([]int, len(consoleColumns))
	cells := make([][]string, len(records))
	for i, col := range consoleColumns {
		widths[i] = len(col.title)
	}
	for r, rec := range records {
		row := make([]string, len(consoleColumns))
		for i, col := range consoleColumns {
			row[i] = col.value(rec)
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		cells[r] = row
	}

	for i, col := range consoleColumns {
		fmt.Fprintf(&buf, "%*s ", widths[i], col.title)
	}
	fmt.Fprintln(&buf)
	for i := range consoleColumns {
		fmt.Fprintf(&buf, "%s ", strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(&buf)
	for _, row := range cells {
		for i, cell := range row {
			fmt.Fprintf(&buf, "%*s ", widths[i], cell)
		}
		fmt.Fprintln(&buf)
	}

	s := Summarize(doc.Ledger)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Final personal net assets: %s (%s)\n", FormatManYen(s.FinalNetAssets), FormatYen(s.FinalNetAssets))
	fmt.Fprintf(&buf, "Final corporate net assets: %s (%s)\n", FormatManYen(s.FinalCorporateNet), FormatYen(s.FinalCorporateNet))
	return buf.Bytes(), nil
}
