package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(doc.Ledger)
	fmt.Fprintln(&buf, "LIFE PLAN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Horizon: %d-%d (%d years)\n", s.FirstYear, s.LastYear, doc.Ledger.Len())
	fmt.Fprintf(&buf, "Net assets: start=%s final=%s\n", FormatManYen(s.StartNetAssets), FormatManYen(s.FinalNetAssets))
	fmt.Fprintf(&buf, "Peak=%s (%d) Lowest=%s (%d)\n",
		FormatManYen(s.PeakNetAssets.Value), s.PeakNetAssets.Year,
		FormatManYen(s.LowestNetAssets.Value), s.LowestNetAssets.Year)
	fmt.Fprintf(&buf, "Investments final=%s Corporate net final=%s\n", FormatManYen(s.FinalInvestments), FormatManYen(s.FinalCorporateNet))
	fmt.Fprintf(&buf, "Deficit years: %d\n", s.DeficitYears)
	if s.FirstDepletion != 0 {
		fmt.Fprintf(&buf, "Net assets turn negative in %d\n", s.FirstDepletion)
	}
	return buf.Bytes(), nil
}
