package fmp

import "github.com/wonny/growthscore/internal/contracts"

// incomeRow is one quarterly income statement.
// Some fields exist under several names depending on the API version.
type incomeRow struct {
	Date         string        `json:"date"`
	Period       string        `json:"period"`
	CalendarYear contracts.Num `json:"calendarYear"`
	FiscalYear   contracts.Num `json:"fiscalYear"`

	Revenue     contracts.Num `json:"revenue"`
	GrossProfit contracts.Num `json:"grossProfit"`
	SGA         contracts.Num `json:"sellingGeneralAndAdministrativeExpenses"`
	GA          contracts.Num `json:"generalAndAdministrativeExpenses"`
	RnD         contracts.Num `json:"researchAndDevelopmentExpenses"`
	EBITDA      contracts.Num `json:"ebitda"`
	NetIncome   contracts.Num `json:"netIncome"`
	SharesDil   contracts.Num `json:"weightedAverageShsOutDil"`
}

// balanceRow is one quarterly balance sheet
type balanceRow struct {
	Date string `json:"date"`

	Inventory           contracts.Num `json:"inventory"`
	NetReceivables      contracts.Num `json:"netReceivables"`
	AccountsReceivables contracts.Num `json:"accountsReceivables"`
	Cash                contracts.Num `json:"cashAndCashEquivalents"`
	CashAndShortTerm    contracts.Num `json:"cashAndShortTermInvestments"`
	TotalDebt           contracts.Num `json:"totalDebt"`
	ShortTermDebt       contracts.Num `json:"shortTermDebt"`
	LongTermDebt        contracts.Num `json:"longTermDebt"`
}

// cashFlowRow is one quarterly cash flow statement
type cashFlowRow struct {
	Date string `json:"date"`

	OperatingCashFlow contracts.Num `json:"operatingCashFlow"`
	NetCashOperating  contracts.Num `json:"netCashProvidedByOperatingActivities"`
	CapitalExpend     contracts.Num `json:"capitalExpenditure"`
	InvestmentsPPE    contracts.Num `json:"investmentsInPropertyPlantAndEquipment"`
}

// quoteRow is the quote endpoint payload
type quoteRow struct {
	Symbol    string        `json:"symbol"`
	Price     contracts.Num `json:"price"`
	MarketCap contracts.Num `json:"marketCap"`
}
