package sec

import "github.com/wonny/growthscore/internal/xbrl"

// metric is one logical field extracted from the companyfacts document
type metric struct {
	name    string
	mode    xbrl.Mode
	configs []xbrl.ConceptConfig
}

func gaap(units []string, concepts ...string) []xbrl.ConceptConfig {
	return []xbrl.ConceptConfig{{Taxonomy: "us-gaap", Concepts: concepts, Units: units}}
}

var (
	usd    = []string{"USD"}
	shares = []string{"shares"}
)

// Concept alternatives in priority order. Filers are inconsistent about
// which element they use; later concepts only win on a newer filing.
var (
	revenueMetric = metric{"revenue", xbrl.Duration, gaap(usd,
		"Revenues",
		"SalesRevenueNet",
		"RevenueFromContractWithCustomerIncludingAssessedTax",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
	)}
	grossProfitMetric = metric{"gross_profit", xbrl.Duration, gaap(usd, "GrossProfit")}
	sgaMetric         = metric{"sga", xbrl.Duration, gaap(usd,
		"SellingGeneralAndAdministrativeExpense",
		"GeneralAndAdministrativeExpense",
	)}
	rndMetric = metric{"rnd", xbrl.Duration, gaap(usd,
		"ResearchAndDevelopmentExpense",
		"ResearchAndDevelopmentExpenseExcludingAcquiredInProcessCost",
	)}
	netIncomeMetric = metric{"net_income", xbrl.Duration, gaap(usd,
		"NetIncomeLoss",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	)}
	operatingIncomeMetric = metric{"operating_income", xbrl.Duration, gaap(usd, "OperatingIncomeLoss")}
	depreciationMetric    = metric{"depreciation", xbrl.Duration, gaap(usd,
		"Depreciation",
		"DepreciationAndAmortization",
		"DepreciationDepletionAndAmortization",
		"DepreciationAmortizationAndAccretionNet",
	)}

	ocfMetric = metric{"ocf", xbrl.Duration, gaap(usd,
		"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
		"NetCashProvidedByUsedInOperatingActivities",
	)}
	capexMetric = metric{"capex", xbrl.Duration, gaap(usd,
		"PaymentsToAcquireProductiveAssets",
		"PaymentsToAcquirePropertyPlantAndEquipment",
	)}

	inventoryMetric   = metric{"inventory", xbrl.Instant, gaap(usd, "InventoryNet", "InventoryGross")}
	receivablesMetric = metric{"receivables", xbrl.Instant, gaap(usd,
		"AccountsReceivableNetCurrent",
		"ReceivablesNetCurrent",
	)}
	cashMetric = metric{"cash", xbrl.Instant, gaap(usd,
		"CashAndCashEquivalentsAtCarryingValue",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
	)}
	debtMetric = metric{"total_debt", xbrl.Instant, gaap(usd,
		"DebtLongtermAndShorttermCombinedAmount",
		"LongTermDebt",
	)}
	debtCurrentMetric = metric{"debt_current", xbrl.Instant, gaap(usd,
		"LongTermDebtCurrent",
		"DebtCurrent",
	)}
	debtNoncurrentMetric = metric{"debt_noncurrent", xbrl.Instant, gaap(usd,
		"LongTermDebtNoncurrent",
	)}

	dilutedSharesMetric = metric{"diluted_shares", xbrl.Average, gaap(shares,
		"WeightedAverageNumberOfDilutedSharesOutstanding",
	)}
)
