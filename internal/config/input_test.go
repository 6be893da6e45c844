package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const minimalBundle = `profile:
  current_age: 40
  start_year: 2025
  end_age: 42
  occupation: company_employee
  monthly_living_expense: 20
income:
  personal:
    - id: salary
      name: Salary
      role: salary
      amounts:
        2025: 500
        2026: 500
      investment_ratio: 10
      max_investment_amount: 100
  corporate: []
expenses:
  personal:
    - id: living
      name: Living
      role: living
      amounts: {}
      auto_calculated: true
  corporate: []
`

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("bundle.json"))
	assert.Equal(t, FormatJSON, DetectFormat("BUNDLE.JSON"))
	assert.Equal(t, FormatYAML, DetectFormat("bundle.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("bundle"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestParse_AppliesDefaults(t *testing.T) {
	b, err := NewInputParser().Parse([]byte(minimalBundle), FormatYAML)
	require.NoError(t, err)

	require.NotNil(t, b.Parameters)
	assert.True(t, b.Parameters.InvestmentRatio.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.Parameters.MaxInvestmentAmount.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, b.Assets)
	assert.NotNil(t, b.Assets.Personal)
	require.NotNil(t, b.Liabilities)
	assert.NotNil(t, b.LifeEvents)
	assert.Equal(t, domain.MaritalSingle, b.Profile.MaritalStatus)
	assert.Equal(t, domain.HousingRent, b.Profile.Housing.Type)
	assert.Equal(t, 22, b.Profile.Pension.WorkStartAge)
	assert.Equal(t, 65, b.Profile.Pension.ClaimAge)
	assert.True(t, b.Income.Personal[0].Amounts.Get(2026).Equal(decimal.NewFromInt(500)))
}

func TestParse_DefaultStartYearAndEndAge(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	data := `profile:
  current_age: 30
income: {personal: [], corporate: []}
expenses: {personal: [], corporate: []}
`
	b, err := NewInputParser().Parse([]byte(data), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 2031, b.Profile.StartYear)
	assert.Equal(t, DefaultEndAge, b.Profile.EndAge)
}

func TestParse_JSON(t *testing.T) {
	data := `{
  "profile": {"current_age": 40, "start_year": 2025, "end_age": 41},
  "income": {"personal": [{"id": "s", "name": "Salary", "role": "salary", "amounts": {"2025": 300}}], "corporate": []},
  "expenses": {"personal": [], "corporate": []}
}`
	b, err := NewInputParser().Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.True(t, b.Income.Personal[0].Amounts.Get(2025).Equal(decimal.NewFromInt(300)))
}

func TestParse_ValidationErrors(t *testing.T) {
	base := func(extra string) string {
		return `profile:
  current_age: 40
  start_year: 2025
  end_age: 45
` + extra
	}
	sections := "income: {personal: [], corporate: []}\nexpenses: {personal: [], corporate: []}\n"

	tests := []struct {
		name    string
		data    string
		section string
	}{
		{"missing profile", sections, "profile"},
		{"missing income", base("expenses: {personal: [], corporate: []}\n"), "income"},
		{"missing expenses", base("income: {personal: [], corporate: []}\n"), "expenses"},
		{"end before current", "profile: {current_age: 50, start_year: 2025, end_age: 40}\n" + sections, "profile"},
		{"unknown occupation", base("  occupation: astronaut\n") + sections, "profile"},
		{"married without spouse", base("  marital_status: married\n") + sections, "profile"},
		{"bad housing", base("  housing: {type: tent}\n") + sections, "profile"},
		{"unknown income role", base(`income:
  personal:
    - {id: a, name: A, role: lottery, amounts: {}}
  corporate: []
expenses: {personal: [], corporate: []}
`), "income.personal"},
		{"duplicate id", base(`income:
  personal:
    - {id: a, name: A, role: salary, amounts: {}}
    - {id: a, name: B, role: side, amounts: {}}
  corporate: []
expenses: {personal: [], corporate: []}
`), "income.personal"},
		{"empty id", base(`income: {personal: [], corporate: []}
expenses:
  personal:
    - {name: A, role: living, amounts: {}}
  corporate: []
`), "expenses.personal"},
		{"ratio out of range", base(`income:
  personal: []
  corporate:
    - {id: a, name: A, role: other, amounts: {}, investment_ratio: 120}
expenses: {personal: [], corporate: []}
`), "income.corporate"},
		{"bad event source", base(sections + `life_events:
  - {year: 2026, description: x, type: expense, amount: 10, source: bank}
`), "life_events"},
		{"bad event type", base(sections + `life_events:
  - {year: 2026, description: x, type: gift, amount: 10, source: personal}
`), "life_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.data), FormatYAML)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %T: %v", err, err)
			assert.Equal(t, tt.section, ve.Section)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("profile: [unterminated"), FormatYAML)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = NewInputParser().Parse([]byte("{not json"), FormatJSON)
	require.True(t, errors.As(err, &ve))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalBundle), 0o644))

	b, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 40, b.Profile.CurrentAge)

	_, err = NewInputParser().LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestCreateExampleBundle_Valid(t *testing.T) {
	b := CreateExampleBundle()
	require.NoError(t, NewInputParser().ValidateBundle(b))
	assert.Equal(t, 30, b.Profile.CurrentAge)
	assert.Len(t, b.Income.Personal, 6)
	assert.Len(t, b.Income.Corporate, 2)
	assert.Len(t, b.Expenses.Personal, 4)
	assert.Len(t, b.Assets.Personal, 2)
}

func TestDocumentRoundTrip(t *testing.T) {
	engine := calculation.NewCalculationEngine()
	res, err := engine.Run(CreateExampleBundle())
	require.NoError(t, err)
	doc := NewDocument(res)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := MarshalDocument(doc, format)
			require.NoError(t, err)

			b, err := NewInputParser().Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, res.Snapshot.Profile.CurrentAge, b.Profile.CurrentAge)
			assert.Equal(t, res.Snapshot.Profile.StartYear, b.Profile.StartYear)
			assert.Len(t, b.Income.Personal, len(res.Snapshot.Income.Personal))
			assert.Len(t, b.LifeEvents, len(res.Snapshot.LifeEvents))
			again, err := engine.Run(b)
			require.NoError(t, err)
			assert.True(t, res.Ledger.Equal(again.Ledger), "re-imported export must reproduce the ledger")

			var decoded domain.Document
			if format == FormatJSON {
				require.NoError(t, json.Unmarshal(data, &decoded))
			} else {
				require.NoError(t, yaml.Unmarshal(data, &decoded))
			}
			assert.True(t, res.Ledger.Equal(decoded.Ledger), "exported ledger must decode unchanged")
		})
	}
}

func TestSaveDocument(t *testing.T) {
	res, err := calculation.NewCalculationEngine().Run(CreateExampleBundle())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveDocument(NewDocument(res), path))

	b, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot.Profile.StartYear, b.Profile.StartYear)
}
