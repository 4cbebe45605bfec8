package scoring

import (
	"github.com/wonny/growthscore/internal/contracts"
)

// field reads one value from a quarter
type field func(q contracts.Quarter) contracts.Num

func revenue(q contracts.Quarter) contracts.Num      { return q.Revenue }
func ocf(q contracts.Quarter) contracts.Num          { return q.OCF }
func capex(q contracts.Quarter) contracts.Num        { return q.Capex }
func ebitda(q contracts.Quarter) contracts.Num       { return q.EBITDA }
func netIncome(q contracts.Quarter) contracts.Num    { return q.NetIncome }
func totalDebt(q contracts.Quarter) contracts.Num    { return q.TotalDebt }
func cash(q contracts.Quarter) contracts.Num         { return q.Cash }
func rndIntensity(q contracts.Quarter) contracts.Num { return ratio(q.RnD, q.Revenue) }

func grossMargin(q contracts.Quarter) contracts.Num {
	return ratio(q.GrossProfit, q.Revenue)
}

func opexRatio(q contracts.Quarter) contracts.Num {
	return ratio(add(q.SGA, q.RnD), q.Revenue)
}

func freeCashFlow(q contracts.Quarter) contracts.Num {
	return sub(q.OCF, q.Capex)
}

func workingCapital(q contracts.Quarter) contracts.Num {
	return add(q.Receivables, q.Inventory)
}

// window returns slots[from:to], clamped to the timeline
func window(slots []Slot, from, to int) []Slot {
	if from > len(slots) {
		from = len(slots)
	}
	if to > len(slots) {
		to = len(slots)
	}
	return slots[from:to]
}

// sumOf is unknown unless every slot has the field
func sumOf(slots []Slot, f field) contracts.Num {
	if len(slots) == 0 {
		return contracts.None()
	}
	total := 0.0
	for _, s := range slots {
		v, ok := f(s.Quarter).Get()
		if !ok {
			return contracts.None()
		}
		total += v
	}
	return contracts.Some(total)
}

func avgOf(slots []Slot, f field) contracts.Num {
	return div(sumOf(slots, f), contracts.Some(float64(len(slots))))
}

// sumKnown adds the known values and reports how many there were
func sumKnown(slots []Slot, f field) (contracts.Num, int) {
	total, n := 0.0, 0
	for _, s := range slots {
		if v, ok := f(s.Quarter).Get(); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return contracts.None(), 0
	}
	return contracts.Some(total), n
}

// latestKnown returns the newest known value of f
func latestKnown(slots []Slot, f field) contracts.Num {
	for _, s := range slots {
		if v := f(s.Quarter); v.Valid() {
			return v
		}
	}
	return contracts.None()
}

func add(a, b contracts.Num) contracts.Num {
	av, aok := a.Get()
	bv, bok := b.Get()
	if !aok || !bok {
		return contracts.None()
	}
	return contracts.Some(av + bv)
}

func sub(a, b contracts.Num) contracts.Num {
	av, aok := a.Get()
	bv, bok := b.Get()
	if !aok || !bok {
		return contracts.None()
	}
	return contracts.Some(av - bv)
}

func div(a, b contracts.Num) contracts.Num {
	av, aok := a.Get()
	bv, bok := b.Get()
	if !aok || !bok || bv == 0 {
		return contracts.None()
	}
	return contracts.Some(av / bv)
}

// ratio divides by a strictly positive denominator
func ratio(a, b contracts.Num) contracts.Num {
	return div(a, positive(b))
}

// growth is a/b - 1 over a positive base
func growth(a, b contracts.Num) contracts.Num {
	return sub(ratio(a, b), contracts.Some(1))
}

func positive(n contracts.Num) contracts.Num {
	if v, ok := n.Get(); ok && v > 0 {
		return n
	}
	return contracts.None()
}

// yoyAt is revenue growth of slot i over the slot four quarters earlier
func yoyAt(slots []Slot, i int) contracts.Num {
	if i+4 >= len(slots) {
		return contracts.None()
	}
	return growth(slots[i].Quarter.Revenue, slots[i+4].Quarter.Revenue)
}

func avgNums(nums ...contracts.Num) contracts.Num {
	if len(nums) == 0 {
		return contracts.None()
	}
	total := 0.0
	for _, n := range nums {
		v, ok := n.Get()
		if !ok {
			return contracts.None()
		}
		total += v
	}
	return contracts.Some(total / float64(len(nums)))
}

// sharesWindow averages normalized share counts over [from, to)
func sharesWindow(shares []contracts.Num, from, to int) contracts.Num {
	if to > len(shares) || from >= to {
		return contracts.None()
	}
	return avgNums(shares[from:to]...)
}
