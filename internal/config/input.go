package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a bundle or document file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultEndAge is the end of the horizon when a profile gives none.
const DefaultEndAge = 80

// DetectFormat guesses the encoding from a file name. Anything that is not
// .json is read as YAML.
func DetectFormat(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported bundle format %q", name)
}

// InputParser handles parsing of input bundles
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a bundle from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, DetectFormat(filename))
}

// Parse decodes a bundle, applies defaults and validates it. Exported
// documents are accepted; their ledger is discarded.
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Bundle, error) {
	var doc domain.Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("failed to parse JSON: %v", err)}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &domain.ValidationError{Reason: fmt.Sprintf("failed to parse YAML: %v", err)}
		}
	}

	b := doc.Bundle
	if err := checkRequiredSections(&b); err != nil {
		return nil, err
	}
	ApplyDefaults(&b)
	if err := ip.ValidateBundle(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func checkRequiredSections(b *domain.Bundle) error {
	switch {
	case b.Profile == nil:
		return domain.NewValidationError("profile", "section is required")
	case b.Income == nil:
		return domain.NewValidationError("income", "section is required")
	case b.Expenses == nil:
		return domain.NewValidationError("expenses", "section is required")
	}
	return nil
}

// ApplyDefaults fills every optional section and field left unset.
func ApplyDefaults(b *domain.Bundle) {
	if b.Parameters == nil {
		p := domain.DefaultParameters()
		b.Parameters = &p
	}
	if b.Assets == nil {
		b.Assets = &domain.AssetData{}
	}
	if b.Liabilities == nil {
		b.Liabilities = &domain.LiabilityData{}
	}
	if b.LifeEvents == nil {
		b.LifeEvents = []domain.LifeEvent{}
	}
	if b.Income != nil {
		b.Income.Personal = nonNil(b.Income.Personal)
		b.Income.Corporate = nonNil(b.Income.Corporate)
	}
	if b.Expenses != nil {
		b.Expenses.Personal = nonNil(b.Expenses.Personal)
		b.Expenses.Corporate = nonNil(b.Expenses.Corporate)
	}
	b.Assets.Personal = nonNil(b.Assets.Personal)
	b.Assets.Corporate = nonNil(b.Assets.Corporate)
	b.Liabilities.Personal = nonNil(b.Liabilities.Personal)
	b.Liabilities.Corporate = nonNil(b.Liabilities.Corporate)

	p := b.Profile
	if p == nil {
		return
	}
	if p.StartYear == 0 {
		p.StartYear = defaultStartYear()
	}
	if p.EndAge == 0 {
		p.EndAge = DefaultEndAge
	}
	if p.MaritalStatus == "" {
		p.MaritalStatus = domain.MaritalSingle
	}
	if p.Occupation == "" {
		p.Occupation = domain.OccupationCompanyEmployee
	}
	if p.Housing.Type == "" {
		p.Housing.Type = domain.HousingRent
	}
	p.Pension = pensionDefaults(p.Pension)
	if p.Spouse != nil {
		p.Spouse.Pension = pensionDefaults(p.Spouse.Pension)
	}
}

func pensionDefaults(pp domain.PensionProfile) domain.PensionProfile {
	if pp.WorkStartAge == 0 {
		pp.WorkStartAge = 22
	}
	if pp.ClaimAge == 0 {
		pp.ClaimAge = 65
	}
	return pp
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ValidateBundle validates a defaulted bundle
func (ip *InputParser) ValidateBundle(b *domain.Bundle) error {
	if err := checkRequiredSections(b); err != nil {
		return err
	}
	if err := ip.validateProfile(b.Profile); err != nil {
		return err
	}
	if err := ip.validateParameters(b.Parameters); err != nil {
		return err
	}
	for _, sec := range []struct {
		name  string
		items []domain.IncomeItem
	}{{"income.personal", b.Income.Personal}, {"income.corporate", b.Income.Corporate}} {
		if err := ip.validateIncome(sec.name, sec.items); err != nil {
			return err
		}
	}
	for _, sec := range []struct {
		name  string
		items []domain.ExpenseItem
	}{{"expenses.personal", b.Expenses.Personal}, {"expenses.corporate", b.Expenses.Corporate}} {
		if err := ip.validateExpenses(sec.name, sec.items); err != nil {
			return err
		}
	}
	if b.Assets != nil {
		if err := validateAssets("assets.personal", b.Assets.Personal); err != nil {
			return err
		}
		if err := validateAssets("assets.corporate", b.Assets.Corporate); err != nil {
			return err
		}
	}
	if b.Liabilities != nil {
		if err := validateLiabilities("liabilities.personal", b.Liabilities.Personal); err != nil {
			return err
		}
		if err := validateLiabilities("liabilities.corporate", b.Liabilities.Corporate); err != nil {
			return err
		}
	}
	for i, ev := range b.LifeEvents {
		if ev.Type != domain.EventIncome && ev.Type != domain.EventExpense {
			return domain.NewValidationError("life_events", "event %d: type must be 'income' or 'expense'", i)
		}
		if !ev.Source.Valid() {
			return domain.NewValidationError("life_events", "event %d: unknown source %q", i, ev.Source)
		}
		if ev.Amount.IsNegative() {
			return domain.NewValidationError("life_events", "event %d: amount cannot be negative", i)
		}
	}
	return nil
}

// validateProfile validates the household profile
func (ip *InputParser) validateProfile(p *domain.Profile) error {
	if p.CurrentAge < 0 {
		return domain.NewValidationError("profile", "current age cannot be negative")
	}
	if p.StartYear <= 0 {
		return domain.NewValidationError("profile", "start year must be positive")
	}
	if p.EndAge < p.CurrentAge {
		return domain.NewValidationError("profile", "end age %d is before current age %d", p.EndAge, p.CurrentAge)
	}
	if !p.Occupation.Valid() {
		return domain.NewValidationError("profile", "unknown occupation %q", p.Occupation)
	}
	switch p.MaritalStatus {
	case domain.MaritalSingle:
	case domain.MaritalMarried, domain.MaritalPlanning:
		if p.Spouse == nil {
			return domain.NewValidationError("profile", "spouse is required when marital status is %s", p.MaritalStatus)
		}
		if !p.Spouse.Occupation.Valid() {
			return domain.NewValidationError("profile", "unknown spouse occupation %q", p.Spouse.Occupation)
		}
	default:
		return domain.NewValidationError("profile", "unknown marital status %q", p.MaritalStatus)
	}
	switch p.Housing.Type {
	case domain.HousingRent:
		if r := p.Housing.Rent; r != nil && r.RenewalInterval < 0 {
			return domain.NewValidationError("profile", "rent renewal interval cannot be negative")
		}
	case domain.HousingOwn:
		if o := p.Housing.Own; o != nil && o.LoanTermYears < 0 {
			return domain.NewValidationError("profile", "loan term cannot be negative")
		}
	default:
		return domain.NewValidationError("profile", "housing type must be 'rent' or 'own'")
	}
	for i, c := range p.Children {
		if c.CurrentAge < 0 {
			return domain.NewValidationError("profile", "child %d: age cannot be negative", i)
		}
	}
	for i, c := range p.PlannedChildren {
		if c.YearsFromNow < 0 {
			return domain.NewValidationError("profile", "planned child %d: years from now cannot be negative", i)
		}
	}
	return nil
}

// validateParameters validates the global rates
func (ip *InputParser) validateParameters(p *domain.Parameters) error {
	if p == nil {
		return nil
	}
	if p.InvestmentRatio.IsNegative() || p.InvestmentRatio.GreaterThan(decimal.NewFromInt(100)) {
		return domain.NewValidationError("parameters", "investment ratio must be between 0 and 100")
	}
	if p.MaxInvestmentAmount.IsNegative() {
		return domain.NewValidationError("parameters", "max investment amount cannot be negative")
	}
	if p.InflationRate.LessThan(decimal.NewFromInt(-100)) {
		return domain.NewValidationError("parameters", "inflation rate cannot be below -100%%")
	}
	return nil
}

func checkID(section, id string, seen map[string]bool) error {
	if id == "" {
		return domain.NewValidationError(section, "item id is required")
	}
	if seen[id] {
		return domain.NewValidationError(section, "duplicate item id %q", id)
	}
	seen[id] = true
	return nil
}

func (ip *InputParser) validateIncome(section string, items []domain.IncomeItem) error {
	seen := map[string]bool{}
	for _, it := range items {
		if err := checkID(section, it.ID, seen); err != nil {
			return err
		}
		if !it.Role.Valid() {
			return domain.NewValidationError(section, "item %q: unknown role %q", it.ID, it.Role)
		}
		if it.InvestmentRatio.IsNegative() || it.InvestmentRatio.GreaterThan(decimal.NewFromInt(100)) {
			return domain.NewValidationError(section, "item %q: investment ratio must be between 0 and 100", it.ID)
		}
	}
	return nil
}

func (ip *InputParser) validateExpenses(section string, items []domain.ExpenseItem) error {
	seen := map[string]bool{}
	for _, it := range items {
		if err := checkID(section, it.ID, seen); err != nil {
			return err
		}
		if !it.Role.Valid() {
			return domain.NewValidationError(section, "item %q: unknown role %q", it.ID, it.Role)
		}
		if it.CostSettings != nil && it.Role != domain.ExpenseBusinessCost {
			return domain.NewValidationError(section, "item %q: cost settings require role business_cost", it.ID)
		}
	}
	return nil
}

func validateAssets(section string, items []domain.AssetItem) error {
	seen := map[string]bool{}
	for _, it := range items {
		if err := checkID(section, it.ID, seen); err != nil {
			return err
		}
		switch it.Kind {
		case "", domain.AssetCash, domain.AssetInvestment, domain.AssetProperty, domain.AssetOther:
		default:
			return domain.NewValidationError(section, "item %q: unknown kind %q", it.ID, it.Kind)
		}
	}
	return nil
}

func validateLiabilities(section string, items []domain.LiabilityItem) error {
	seen := map[string]bool{}
	for _, it := range items {
		if err := checkID(section, it.ID, seen); err != nil {
			return err
		}
		switch it.Kind {
		case "", domain.LiabilityLoan, domain.LiabilityCredit, domain.LiabilityOther:
		default:
			return domain.NewValidationError(section, "item %q: unknown kind %q", it.ID, it.Kind)
		}
		if a := it.Amortization; a != nil {
			if a.TermYears < 0 {
				return domain.NewValidationError(section, "item %q: term cannot be negative", it.ID)
			}
			switch a.Method {
			case "", domain.MethodLinear, domain.MethodAnnuity:
			default:
				return domain.NewValidationError(section, "item %q: unknown amortization method %q", it.ID, a.Method)
			}
		}
	}
	return nil
}

// NewDocument builds the export document for a projection result: the
// materialized bundle plus its ledger.
func NewDocument(res *domain.Result) *domain.Document {
	return &domain.Document{Bundle: *res.Snapshot, Ledger: res.Ledger}
}

// MarshalDocument encodes a document in format.
func MarshalDocument(doc *domain.Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// SaveDocument writes a document to path, encoded by its extension.
func SaveDocument(doc *domain.Document, path string) error {
	data, err := MarshalDocument(doc, DetectFormat(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
