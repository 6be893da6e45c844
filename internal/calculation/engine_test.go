package calculation

import (
	"errors"
	"testing"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func every(years []int, v float64) domain.YearAmounts {
	out := domain.YearAmounts{}
	for _, y := range years {
		out[y] = dec(v)
	}
	return out
}

var testYears = []int{2025, 2026, 2027, 2028, 2029, 2030}

func testBundle() *domain.Bundle {
	params := domain.DefaultParameters()
	params.InvestmentReturn = dec(5)
	params.IncomeInvestmentReturn = dec(10)
	return &domain.Bundle{
		Profile: &domain.Profile{
			CurrentAge:    40,
			StartYear:     2025,
			EndAge:        45,
			Occupation:    domain.OccupationSelfEmployed,
			MaritalStatus: domain.MaritalSingle,
		},
		Parameters: &params,
		Income: &domain.IncomeData{
			Personal: []domain.IncomeItem{
				{ID: "salary", Role: domain.IncomeSalary, Amounts: every(testYears, 500), InvestmentRatio: dec(10), MaxInvestmentAmount: dec(100)},
				{ID: "side", Role: domain.IncomeSide, Amounts: every(testYears, 100)},
			},
			Corporate: []domain.IncomeItem{},
		},
		Expenses: &domain.ExpenseData{
			Personal: []domain.ExpenseItem{
				{ID: "living", Role: domain.ExpenseLiving, Amounts: every(testYears, 300)},
			},
		},
		Assets: &domain.AssetData{
			Personal: []domain.AssetItem{
				{ID: "fund", Kind: domain.AssetInvestment, IsInvestment: true, Amounts: domain.YearAmounts{2025: dec(1000)}},
				{ID: "cash", Kind: domain.AssetCash, Amounts: domain.YearAmounts{2025: dec(200), 2027: dec(300)}},
			},
		},
		Liabilities: &domain.LiabilityData{
			Personal: []domain.LiabilityItem{
				{ID: "loan", Kind: domain.LiabilityLoan, Amounts: domain.YearAmounts{2025: dec(100), 2026: dec(-50)},
					Amortization: &domain.Amortization{AutoCalculate: true, OriginalAmount: dec(100), TermYears: 2, StartYear: 2025}},
			},
		},
	}
}

func mustRun(t *testing.T, b *domain.Bundle) *domain.Result {
	t.Helper()
	res, err := NewCalculationEngine().Run(b)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func record(t *testing.T, res *domain.Result, year int) domain.YearRecord {
	t.Helper()
	r, ok := res.Ledger.Record(year)
	require.True(t, ok, "missing year %d", year)
	return r
}

func assertDec(t *testing.T, expected float64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(dec(expected)), "%s: expected %v, got %s", msg, expected, got)
}

func TestRun_HorizonAndAges(t *testing.T) {
	res := mustRun(t, testBundle())
	assert.Equal(t, testYears, res.Ledger.Years())
	assert.Equal(t, 45, record(t, res, 2030).Age)
}

func TestRun_FirstYear(t *testing.T) {
	r := record(t, mustRun(t, testBundle()), 2025)

	assertDec(t, 500, r.MainIncome, "main income")
	assertDec(t, 100, r.SideIncome, "side income")
	assertDec(t, 0, r.InvestmentIncome, "no growth in the first year")
	assertDec(t, 50, r.InvestmentAmount, "contribution")
	assertDec(t, 50, r.LoanRepayment, "loan repayment")
	assertDec(t, 200, r.PersonalBalance, "balance")
	assertDec(t, 1400, r.PersonalTotalAssets, "seeded assets plus balance")
	assertDec(t, 100, r.PersonalLiabilityTotal, "liability")
	assertDec(t, 1300, r.PersonalNetAssets, "net assets")
	assertDec(t, 50, r.TotalInvestmentAssets, "pool")
}

func TestRun_SecondYearGrowth(t *testing.T) {
	res := mustRun(t, testBundle())
	r := record(t, res, 2026)

	// fund 1000 x 5% plus pool 50 x 10%
	assertDec(t, 55, r.InvestmentIncome, "investment income")
	assertDec(t, 255, r.PersonalBalance, "balance")
	assertDec(t, 1705, r.PersonalTotalAssets, "total assets")
	assertDec(t, 50, r.PersonalLiabilityTotal, "liability stored as magnitude")
	assertDec(t, 105, r.TotalInvestmentAssets, "pool")

	fund := res.Assets.Personal[0].Amounts
	assertDec(t, 1050, fund.Get(2026), "fund balance")
	cash := res.Assets.Personal[1].Amounts
	assertDec(t, 200, cash.Get(2026), "cash carried forward")
	assertDec(t, 300, cash.Get(2027), "cash replaced by supplied value")

	assertDec(t, 0, record(t, res, 2027).LoanRepayment, "loan repaid")
}

func TestRun_TotalAssetsIdentity(t *testing.T) {
	res := mustRun(t, testBundle())
	records := res.Ledger.Records()
	assetSum := func(year int) float64 {
		total := decimal.Zero
		for _, a := range res.Assets.Personal {
			total = total.Add(a.Amounts.Get(year))
		}
		f, _ := total.Float64()
		return f
	}

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		prevTotal, _ := prev.PersonalTotalAssets.Float64()
		balance, _ := cur.PersonalBalance.Float64()
		total, _ := cur.PersonalTotalAssets.Float64()
		expected := prevTotal + balance + assetSum(cur.Year) - assetSum(prev.Year)
		assert.InDelta(t, expected, total, 0.2, "year %d", cur.Year)
	}
}

func TestRun_IdempotentAndPure(t *testing.T) {
	b := testBundle()
	before := b.Clone()

	first := mustRun(t, b)
	second := mustRun(t, b)

	assert.True(t, first.Ledger.Equal(second.Ledger))
	assert.Equal(t, before, b, "caller bundle must not change")
}

func TestRun_ZeroRatioMeansNoContribution(t *testing.T) {
	b := testBundle()
	b.Income.Personal[0].InvestmentRatio = decimal.Zero
	res := mustRun(t, b)
	for _, r := range res.Ledger.Records() {
		assert.True(t, r.InvestmentAmount.IsZero(), "year %d", r.Year)
		assert.True(t, r.TotalInvestmentAssets.IsZero(), "year %d", r.Year)
	}
}

func TestRun_PensionGatedByClaimAge(t *testing.T) {
	b := testBundle()
	b.Profile.CurrentAge = 60
	b.Profile.EndAge = 70
	b.Profile.Occupation = domain.OccupationCompanyEmployee
	b.Profile.MaritalStatus = domain.MaritalMarried
	b.Profile.Pension = domain.PensionProfile{WorkStartAge: 22, ClaimAge: 65}
	b.Profile.Spouse = &domain.SpouseProfile{CurrentAge: 58, Occupation: domain.OccupationHomemaker,
		Pension: domain.PensionProfile{WorkStartAge: 22, ClaimAge: 65}}
	b.Income.Personal = append(b.Income.Personal,
		domain.IncomeItem{ID: "pension", Role: domain.IncomePension, AutoCalculated: true},
		domain.IncomeItem{ID: "spouse_pension", Role: domain.IncomeSpousePension, AutoCalculated: true},
	)

	res := mustRun(t, b)
	for _, r := range res.Ledger.Records() {
		if r.Age < 65 {
			assert.True(t, r.PensionIncome.IsZero(), "pension before claim age in %d", r.Year)
		} else {
			assert.True(t, r.PensionIncome.IsPositive(), "pension from claim age in %d", r.Year)
		}
		if spouseAge := 58 + (r.Year - 2025); spouseAge < 65 {
			assert.True(t, r.SpousePensionIncome.IsZero(), "spouse pension before claim age in %d", r.Year)
		} else {
			// basic pension only, 480 months
			assertDec(t, 78.1, r.SpousePensionIncome, "spouse basic pension")
		}
	}

	snap := res.Snapshot.Income.Personal[2].Amounts
	assert.Len(t, snap, 11, "pension materialized for every horizon year")
}

func TestRun_SingleHasNoSpousePension(t *testing.T) {
	b := testBundle()
	b.Profile.CurrentAge = 64
	b.Profile.EndAge = 70
	b.Income.Personal = append(b.Income.Personal,
		domain.IncomeItem{ID: "spouse_pension", Role: domain.IncomeSpousePension, AutoCalculated: true})
	for _, r := range mustRun(t, b).Ledger.Records() {
		assert.True(t, r.SpousePensionIncome.IsZero())
	}
}

func TestRun_BusinessCostDerivation(t *testing.T) {
	b := testBundle()
	b.Income.Corporate = []domain.IncomeItem{
		{ID: "sales", Role: domain.IncomeBusinessProfit, Amounts: every(testYears, 1001)},
	}
	b.Expenses.Corporate = []domain.ExpenseItem{
		{ID: "cost", Role: domain.ExpenseBusinessCost, CostSettings: &domain.CostSettings{
			CostRatio: dec(10), CostIncreaseRate: dec(10), MaxCostAmount: dec(250)}},
		{ID: "rent", Role: domain.ExpenseOther, Amounts: every(testYears, 20)},
	}

	res := mustRun(t, b)
	r := record(t, res, 2025)
	assertDec(t, 1001, r.CorporateIncome, "revenue")
	assertDec(t, 100.1, r.CorporateExpense, "derived cost unrounded in the ledger")
	assertDec(t, 20, r.CorporateOtherExpense, "other expense")
	assertDec(t, 880.9, r.CorporateBalance, "corporate balance")

	assertDec(t, 200.2, record(t, res, 2026).CorporateExpense, "ratio escalates")
	assertDec(t, 250, record(t, res, 2027).CorporateExpense, "capped")

	derived := res.Snapshot.Expenses.Corporate[0].Amounts
	assertDec(t, 100, derived.Get(2025), "floored write-back")
	assert.Nil(t, b.Expenses.Corporate[0].Amounts, "input untouched")
}

func TestRun_LifeEvents(t *testing.T) {
	b := testBundle()
	b.LifeEvents = []domain.LifeEvent{
		{Year: 2026, Type: domain.EventExpense, Amount: dec(80), Source: domain.SourcePersonal},
		{Year: 2026, Type: domain.EventIncome, Amount: dec(100), Source: domain.SourcePersonalInvestment},
		{Year: 2026, Type: domain.EventIncome, Amount: dec(40), Source: domain.SourceCorporate},
	}

	res := mustRun(t, b)
	r := record(t, res, 2026)
	assertDec(t, 175, r.PersonalBalance, "personal expense event")
	assertDec(t, 205, r.TotalInvestmentAssets, "pool event")
	assertDec(t, 40, r.CorporateBalance, "corporate income event")
}

func TestRun_SnapshotPreparation(t *testing.T) {
	b := testBundle()
	b.Profile.Occupation = domain.OccupationCompanyEmployee
	b.Profile.MonthlyLivingExpense = dec(20)
	b.Profile.MaritalStatus = domain.MaritalMarried
	b.Profile.Spouse = &domain.SpouseProfile{CurrentAge: 38, AdditionalMonthlyExpense: dec(5)}
	b.Parameters.InflationRate = dec(10)
	b.Income.Personal[0].GrossAmounts = domain.YearAmounts{2025: dec(850)}
	b.Expenses.Personal = []domain.ExpenseItem{
		{ID: "living", Role: domain.ExpenseLiving, AutoCalculated: true},
		{ID: "hobby", Role: domain.ExpenseLiving, RawAmounts: domain.YearAmounts{2026: dec(100)}},
		{ID: "gift", Role: domain.ExpenseOther, RawAmounts: domain.YearAmounts{2026: dec(100)}},
	}

	res := mustRun(t, b)
	snap := res.Snapshot

	assertDec(t, 650.4, snap.Income.Personal[0].Amounts.Get(2025), "gross to net")
	assertDec(t, 500, snap.Income.Personal[0].Amounts.Get(2026), "years without gross keep their amount")
	assertDec(t, 300, snap.Expenses.Personal[0].Amounts.Get(2025), "living incl. spouse")
	assertDec(t, 330, snap.Expenses.Personal[0].Amounts.Get(2026), "living inflated")
	assertDec(t, 110, snap.Expenses.Personal[1].Amounts.Get(2026), "raw amounts re-inflated")
	assertDec(t, 100, snap.Expenses.Personal[2].Amounts.Get(2026), "other is not inflated")

	r := record(t, res, 2025)
	assertDec(t, 650.4, r.MainIncome, "net salary in ledger")
	assertDec(t, 300, r.LivingExpense, "living in ledger")

	assertDec(t, 500, b.Income.Personal[0].Amounts.Get(2025), "input untouched")
}

func TestRun_InvalidHorizon(t *testing.T) {
	engine := NewCalculationEngine()

	b := testBundle()
	b.Profile.EndAge = 30
	_, err := engine.Run(b)
	var ce *domain.ComputationError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	b = testBundle()
	b.Profile.StartYear = 0
	_, err = engine.Run(b)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = engine.Run(&domain.Bundle{})
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestRun_RecoversPanics(t *testing.T) {
	engine := NewCalculationEngine()
	engine.TaxCalc = nil

	b := testBundle()
	b.Income.Personal[0].GrossAmounts = domain.YearAmounts{2025: dec(850)}
	b.Profile.Occupation = domain.OccupationCompanyEmployee

	res, err := engine.Run(b)
	assert.Nil(t, res)
	var ce *domain.ComputationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "run", ce.Op)
}

func TestRun_MissingSectionsAreEmpty(t *testing.T) {
	b := &domain.Bundle{Profile: &domain.Profile{CurrentAge: 30, StartYear: 2025, EndAge: 31}}
	res := mustRun(t, b)
	assert.Equal(t, 2, res.Ledger.Len())
	assert.Nil(t, b.Income, "caller bundle is not normalized")
}
