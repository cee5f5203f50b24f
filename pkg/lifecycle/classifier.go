// Package lifecycle derives the monthly customer lifecycle fact table:
// for every assigned customer and every reference month, an activity
// status carried month over month plus a frequency-change label.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"lifecycle-monthly/pkg/aggregate"
	"lifecycle-monthly/pkg/models"
)

// Fatal classification errors. Silent corruption is worse than a hard
// stop here: the facts feed a statistical comparison.
var (
	ErrNoReferenceMonths   = errors.New("reference month set is empty")
	ErrMonthsNotAscending  = errors.New("reference months are not strictly increasing")
	ErrDuplicateAssignment = errors.New("duplicate test group assignment")
	ErrUnclassified        = errors.New("status could not be classified")
)

// Result is the fact table plus counters for recoverable issues.
type Result struct {
	Facts []models.CustomerMonthFact
	// UnknownConsumers counts customers present in the assignment
	// table but absent from the consumer dataset; they are excluded
	// because aging needs the account creation date.
	UnknownConsumers int
}

// carry is the per-customer accumulator folded across months.
type carry struct {
	status      models.Status
	totalOrder  int
	totalAmount float64
	ticket      *float64
}

// Classify emits one CustomerMonthFact per assigned customer per
// reference month. Months must be strictly ascending and normalized
// to the first of the month; each customer's months are folded in
// order, so a month's status depends only on the previous month's
// final status and the current order count.
func Classify(
	months []time.Time,
	consumers []models.Consumer,
	assignments []models.Assignment,
	aggs map[aggregate.Key]*models.MonthAggregate,
) (*Result, error) {
	if err := validateMonths(months); err != nil {
		return nil, err
	}

	groups := make(map[string]models.Group, len(assignments))
	for _, a := range assignments {
		if _, dup := groups[a.CustomerID]; dup {
			return nil, fmt.Errorf("%w: customer %s", ErrDuplicateAssignment, a.CustomerID)
		}
		groups[a.CustomerID] = a.Group
	}

	// Only customers in both the consumer and the assignment tables
	// are classified (inner-join semantics).
	eligible := make([]models.Consumer, 0, len(consumers))
	seen := make(map[string]struct{}, len(consumers))
	for _, c := range consumers {
		if _, ok := seen[c.CustomerID]; ok {
			continue
		}
		seen[c.CustomerID] = struct{}{}
		if _, ok := groups[c.CustomerID]; ok {
			eligible = append(eligible, c)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].CustomerID < eligible[j].CustomerID
	})

	unknown := 0
	for id := range groups {
		if _, ok := seen[id]; !ok {
			unknown++
		}
	}

	res := &Result{
		Facts:            make([]models.CustomerMonthFact, 0, len(eligible)*len(months)),
		UnknownConsumers: unknown,
	}
	for _, c := range eligible {
		facts, err := classifyCustomer(c, groups[c.CustomerID], months, aggs)
		if err != nil {
			return nil, err
		}
		res.Facts = append(res.Facts, facts...)
	}
	return res, nil
}

func classifyCustomer(
	c models.Consumer,
	group models.Group,
	months []time.Time,
	aggs map[aggregate.Key]*models.MonthAggregate,
) ([]models.CustomerMonthFact, error) {
	facts := make([]models.CustomerMonthFact, 0, len(months))
	var prev carry

	for i, m := range months {
		totalOrder := 0
		totalAmount := 0.0
		var ticket *float64
		if agg := aggs[aggregate.Key{CustomerID: c.CustomerID, ReferenceMonth: m}]; agg != nil {
			totalOrder = agg.TotalOrder
			totalAmount = agg.TotalAmount
			if agg.TotalOrder > 0 {
				t := agg.TicketMedio
				ticket = &t
			}
		}

		fact := models.CustomerMonthFact{
			CustomerID:     c.CustomerID,
			ReferenceMonth: m,
			Group:          group,
			CustomerAging:  CustomerAging(c.CreatedAt, m),
			TotalOrder:     totalOrder,
			TotalAmount:    totalAmount,
			TicketMedio:    ticket,
		}

		if i == 0 {
			fact.Status = preliminary(totalOrder)
			fact.Frequency = models.FrequencyNotApplicable
		} else {
			status, err := transition(prev.status, preliminary(totalOrder))
			if err != nil {
				return nil, fmt.Errorf("customer %s month %s: %w",
					c.CustomerID, FormatMonth(m), err)
			}
			fact.Status = status
			fact.LastStatus = prev.status
			fact.Frequency = frequency(totalOrder, prev.totalOrder)
			lmOrder, lmAmount := prev.totalOrder, prev.totalAmount
			fact.TotalOrderLM = &lmOrder
			fact.TotalAmountLM = &lmAmount
			fact.TicketMedioLM = prev.ticket
		}

		facts = append(facts, fact)
		prev = carry{
			status:      fact.Status,
			totalOrder:  totalOrder,
			totalAmount: totalAmount,
			ticket:      ticket,
		}
	}
	return facts, nil
}

// preliminary is the single-month activity status, before prior-period
// context is applied.
func preliminary(totalOrder int) models.Status {
	if totalOrder > 0 {
		return models.StatusActive
	}
	return models.StatusChurned
}

// transition resolves the final status from the previous month's final
// status and the current preliminary one:
//
//	prev active  + curr active  -> active
//	prev active  + curr churned -> churned
//	prev churned + curr active  -> reactivated
//	prev churned + curr churned -> inactive
//
// A previous reactivated counts as active, a previous inactive as
// churned (the previous month's own activity class).
func transition(prev, curr models.Status) (models.Status, error) {
	var prevActive bool
	switch prev {
	case models.StatusActive, models.StatusReactivated:
		prevActive = true
	case models.StatusChurned, models.StatusInactive:
		prevActive = false
	default:
		return models.StatusUnclassified,
			fmt.Errorf("%w: previous status %q", ErrUnclassified, prev)
	}

	currActive := curr == models.StatusActive
	switch {
	case prevActive && currActive:
		return models.StatusActive, nil
	case prevActive && !currActive:
		return models.StatusChurned, nil
	case !prevActive && currActive:
		return models.StatusReactivated, nil
	default:
		return models.StatusInactive, nil
	}
}

func frequency(curr, prev int) models.FrequencyChange {
	switch {
	case curr > prev:
		return models.FrequencyGrowth
	case curr < prev:
		return models.FrequencyContraction
	default:
		return models.FrequencyMaintenance
	}
}

func validateMonths(months []time.Time) error {
	if len(months) == 0 {
		return ErrNoReferenceMonths
	}
	for i, m := range months {
		if !m.Equal(aggregate.TruncateMonth(m)) {
			return fmt.Errorf("%w: %v is not a month boundary", ErrMonthsNotAscending, m)
		}
		if i > 0 && !months[i-1].Before(m) {
			return fmt.Errorf("%w: %s then %s", ErrMonthsNotAscending,
				FormatMonth(months[i-1]), FormatMonth(m))
		}
	}
	return nil
}
