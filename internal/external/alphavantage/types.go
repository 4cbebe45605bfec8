package alphavantage

import "github.com/wonny/growthscore/internal/contracts"

// Alpha Vantage serves every number as a string; "None" means unreported.
// contracts.Num decodes both.

type incomeStatement struct {
	Symbol           string         `json:"symbol"`
	QuarterlyReports []incomeReport `json:"quarterlyReports"`
}

type incomeReport struct {
	FiscalDateEnding string        `json:"fiscalDateEnding"`
	TotalRevenue     contracts.Num `json:"totalRevenue"`
	GrossProfit      contracts.Num `json:"grossProfit"`
	SGA              contracts.Num `json:"sellingGeneralAndAdministrative"`
	RnD              contracts.Num `json:"researchAndDevelopment"`
	EBITDA           contracts.Num `json:"ebitda"`
	OperatingIncome  contracts.Num `json:"operatingIncome"`
	DandA            contracts.Num `json:"depreciationAndAmortization"`
	NetIncome        contracts.Num `json:"netIncome"`
}

type balanceSheet struct {
	Symbol           string          `json:"symbol"`
	QuarterlyReports []balanceReport `json:"quarterlyReports"`
}

type balanceReport struct {
	FiscalDateEnding      string        `json:"fiscalDateEnding"`
	Inventory             contracts.Num `json:"inventory"`
	CurrentNetReceivables contracts.Num `json:"currentNetReceivables"`
	Cash                  contracts.Num `json:"cashAndCashEquivalentsAtCarryingValue"`
	CashAndShortTerm      contracts.Num `json:"cashAndShortTermInvestments"`
	ShortLongTermDebt     contracts.Num `json:"shortLongTermDebtTotal"`
	ShortTermDebt         contracts.Num `json:"shortTermDebt"`
	LongTermDebt          contracts.Num `json:"longTermDebt"`
	SharesOutstanding     contracts.Num `json:"commonStockSharesOutstanding"`
}

type cashFlow struct {
	Symbol           string           `json:"symbol"`
	QuarterlyReports []cashFlowReport `json:"quarterlyReports"`
}

type cashFlowReport struct {
	FiscalDateEnding    string        `json:"fiscalDateEnding"`
	OperatingCashflow   contracts.Num `json:"operatingCashflow"`
	CapitalExpenditures contracts.Num `json:"capitalExpenditures"`
}

type overview struct {
	Symbol               string        `json:"Symbol"`
	MarketCapitalization contracts.Num `json:"MarketCapitalization"`
	SharesOutstanding    contracts.Num `json:"SharesOutstanding"`
}
