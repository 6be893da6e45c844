package config

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// CreateExampleBundle returns a complete sample bundle: a 30-year-old single
// company employee renting, with a small side business and starting savings.
// Amounts are in man-yen.
func CreateExampleBundle() *domain.Bundle {
	start := defaultStartYear()
	profile := &domain.Profile{
		CurrentAge:           30,
		StartYear:            start,
		EndAge:               DefaultEndAge,
		Gender:               "male",
		Occupation:           domain.OccupationCompanyEmployee,
		MonthlyLivingExpense: decimal.NewFromInt(15),
		MaritalStatus:        domain.MaritalSingle,
		Housing: domain.Housing{
			Type: domain.HousingRent,
			Rent: &domain.RentTerms{
				MonthlyRent:        decimal.NewFromInt(8),
				AnnualIncreaseRate: decimal.Zero,
				RenewalFee:         decimal.NewFromInt(8),
				RenewalInterval:    2,
			},
		},
		Pension: domain.PensionProfile{WorkStartAge: 22, ClaimAge: 65},
	}

	salary := domain.YearAmounts{}
	sales := domain.YearAmounts{}
	for _, y := range dateutil.Horizon(start, profile.CurrentAge, profile.EndAge) {
		age := dateutil.AgeInYear(profile.CurrentAge, start, y)
		if age < profile.Pension.ClaimAge {
			salary[y] = decimal.NewFromInt(450)
		}
		if age < 60 {
			sales[y] = decimal.NewFromInt(200)
		}
	}

	params := domain.DefaultParameters()
	cashReturn := decimal.NewFromFloat(0.1)
	investReturn := decimal.NewFromInt(5)

	return &domain.Bundle{
		Profile:    profile,
		Parameters: &params,
		Income: &domain.IncomeData{
			Personal: []domain.IncomeItem{
				{ID: "salary", Name: "Salary", Role: domain.IncomeSalary, Amounts: domain.YearAmounts{}, GrossAmounts: salary,
					InvestmentRatio: decimal.NewFromInt(10), MaxInvestmentAmount: decimal.NewFromInt(100)},
				{ID: "business", Name: "Business income", Role: domain.IncomeBusinessProfit, Amounts: domain.YearAmounts{},
					InvestmentRatio: decimal.NewFromInt(10), MaxInvestmentAmount: decimal.NewFromInt(100)},
				{ID: "side", Name: "Side income", Role: domain.IncomeSide, Amounts: domain.YearAmounts{},
					InvestmentRatio: decimal.NewFromInt(10), MaxInvestmentAmount: decimal.NewFromInt(100)},
				{ID: "spouse", Name: "Spouse income", Role: domain.IncomeSpouse, Amounts: domain.YearAmounts{},
					InvestmentRatio: decimal.NewFromInt(10), MaxInvestmentAmount: decimal.NewFromInt(100)},
				{ID: "pension", Name: "Pension", Role: domain.IncomePension, Amounts: domain.YearAmounts{}, AutoCalculated: true},
				{ID: "spouse_pension", Name: "Spouse pension", Role: domain.IncomeSpousePension, Amounts: domain.YearAmounts{}, AutoCalculated: true},
			},
			Corporate: []domain.IncomeItem{
				{ID: "sales", Name: "Sales", Role: domain.IncomeOther, Amounts: sales,
					InvestmentRatio: decimal.NewFromInt(10), MaxInvestmentAmount: decimal.NewFromInt(100)},
				{ID: "other_income", Name: "Other income", Role: domain.IncomeOther, Amounts: domain.YearAmounts{},
					InvestmentRatio: decimal.NewFromInt(5), MaxInvestmentAmount: decimal.NewFromInt(50)},
			},
		},
		Expenses: &domain.ExpenseData{
			Personal: []domain.ExpenseItem{
				{ID: "living", Name: "Living", Role: domain.ExpenseLiving, Amounts: domain.YearAmounts{}, AutoCalculated: true},
				{ID: "housing", Name: "Housing", Role: domain.ExpenseHousing, Amounts: domain.YearAmounts{}, AutoCalculated: true},
				{ID: "education", Name: "Education", Role: domain.ExpenseEducation, Amounts: domain.YearAmounts{}, AutoCalculated: true},
				{ID: "other", Name: "Other", Role: domain.ExpenseOther, Amounts: domain.YearAmounts{}},
			},
			Corporate: []domain.ExpenseItem{
				{ID: "business_cost", Name: "Business cost", Role: domain.ExpenseBusinessCost, Amounts: domain.YearAmounts{},
					CostSettings: &domain.CostSettings{CostRatio: decimal.NewFromInt(40), CostIncreaseRate: decimal.Zero}},
				{ID: "other_cost", Name: "Other cost", Role: domain.ExpenseOther, Amounts: domain.YearAmounts{}},
			},
		},
		Assets: &domain.AssetData{
			Personal: []domain.AssetItem{
				{ID: "cash", Name: "Cash and deposits", Kind: domain.AssetCash,
					Amounts: domain.YearAmounts{start: decimal.NewFromInt(300)}, InvestmentReturn: &cashReturn},
				{ID: "investment", Name: "Investments", Kind: domain.AssetInvestment, IsInvestment: true,
					Amounts: domain.YearAmounts{start: decimal.NewFromInt(100)}, InvestmentReturn: &investReturn},
			},
			Corporate: []domain.AssetItem{},
		},
		Liabilities: &domain.LiabilityData{
			Personal: []domain.LiabilityItem{
				{ID: "loan", Name: "Loan", Kind: domain.LiabilityLoan, Amounts: domain.YearAmounts{},
					Amortization: &domain.Amortization{InterestRate: decimal.NewFromInt(1), TermYears: 35}},
				{ID: "credit", Name: "Credit balance", Kind: domain.LiabilityCredit, Amounts: domain.YearAmounts{}},
			},
			Corporate: []domain.LiabilityItem{
				{ID: "corporate_loan", Name: "Borrowings", Kind: domain.LiabilityLoan, Amounts: domain.YearAmounts{},
					Amortization: &domain.Amortization{InterestRate: decimal.NewFromInt(2), TermYears: 10}},
				{ID: "payable", Name: "Accounts payable", Kind: domain.LiabilityOther, Amounts: domain.YearAmounts{}},
			},
		},
		LifeEvents: []domain.LifeEvent{
			{Year: start + 5, Description: "Car purchase", Type: domain.EventExpense, Category: "vehicle",
				Amount: decimal.NewFromInt(250), Source: domain.SourcePersonal},
		},
	}
}
