package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// MarkdownFormatter renders the report as GitHub-flavored markdown. The
// terminal and html formatters build on its output.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(doc *domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	s := Summarize(doc.Ledger)

	fmt.Fprintln(&buf, "# Life Plan Projection")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Projection %d-%d, %d years.\n", s.FirstYear, s.LastYear, doc.Ledger.Len())
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "## Summary")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "| Milestone | Year | Amount (man-yen) |")
	fmt.Fprintln(&buf, "|---|---:|---:|")
	fmt.Fprintf(&buf, "| Starting net assets | %d | %s |\n", s.FirstYear, FormatManYen(s.StartNetAssets))
	fmt.Fprintf(&buf, "| Peak net assets | %d | %s |\n", s.PeakNetAssets.Year, FormatManYen(s.PeakNetAssets.Value))
	fmt.Fprintf(&buf, "| Lowest net assets | %d | %s |\n", s.LowestNetAssets.Year, FormatManYen(s.LowestNetAssets.Value))
	fmt.Fprintf(&buf, "| Final net assets | %d | %s |\n", s.LastYear, FormatManYen(s.FinalNetAssets))
	fmt.Fprintf(&buf, "| Final corporate net assets | %d | %s |\n", s.LastYear, FormatManYen(s.FinalCorporateNet))
	fmt.Fprintln(&buf)
	if s.FirstDepletion != 0 {
		fmt.Fprintf(&buf, "> Personal net assets turn negative in **%d**.\n\n", s.FirstDepletion)
	}

	fmt.Fprintln(&buf, "## Key Assumptions")
	fmt.Fprintln(&buf)
	for _, a := range GenerateAssumptions(doc.Params()) {
		fmt.Fprintf(&buf, "- %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "## Cash Flow")
	fmt.Fprintln(&buf)
	titles := make([]string, len(consoleColumns))
	aligns := make([]string, len(consoleColumns))
	for i, col := range consoleColumns {
		titles[i] = col.title
		aligns[i] = "---:"
	}
	fmt.Fprintf(&buf, "| %s |\n", strings.Join(titles, " | "))
	fmt.Fprintf(&buf, "|%s|\n", strings.Join(aligns, "|"))
	for _, r := range doc.Ledger.Records() {
		cells := make([]string, len(consoleColumns))
		for i, col := range consoleColumns {
			cells[i] = col.value(r)
		}
		fmt.Fprintf(&buf, "| %s |\n", strings.Join(cells, " | "))
	}
	return buf.Bytes(), nil
}
