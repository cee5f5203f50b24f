// Package report turns the lifecycle fact table into the downstream
// summaries: pivoted customer counts and a flat CSV export.
package report

import (
	"sort"
	"time"

	"lifecycle-monthly/pkg/models"
)

// StatusRow is a pivot cell group: distinct customers per status for
// one (reference month, test group) pair.
type StatusRow struct {
	ReferenceMonth time.Time
	Group          models.Group
	Counts         map[models.Status]int
}

// FrequencyRow mirrors StatusRow for the frequency-change label.
type FrequencyRow struct {
	ReferenceMonth time.Time
	Group          models.Group
	Counts         map[models.FrequencyChange]int
}

type pivotKey struct {
	month time.Time
	group models.Group
}

// StatusPivot counts customers per status by (month, group), sorted
// by month then group. Facts are unique per (customer, month), so row
// counts are distinct-customer counts.
func StatusPivot(facts []models.CustomerMonthFact) []StatusRow {
	cells := make(map[pivotKey]map[models.Status]int)
	for i := range facts {
		k := pivotKey{month: facts[i].ReferenceMonth, group: facts[i].Group}
		if cells[k] == nil {
			cells[k] = make(map[models.Status]int)
		}
		cells[k][facts[i].Status]++
	}

	rows := make([]StatusRow, 0, len(cells))
	for k, counts := range cells {
		rows = append(rows, StatusRow{ReferenceMonth: k.month, Group: k.group, Counts: counts})
	}
	sortRows(rows, func(r StatusRow) pivotKey { return pivotKey{r.ReferenceMonth, r.Group} })
	return rows
}

// FrequencyPivot counts customers per frequency-change label by
// (month, group), sorted by month then group.
func FrequencyPivot(facts []models.CustomerMonthFact) []FrequencyRow {
	cells := make(map[pivotKey]map[models.FrequencyChange]int)
	for i := range facts {
		k := pivotKey{month: facts[i].ReferenceMonth, group: facts[i].Group}
		if cells[k] == nil {
			cells[k] = make(map[models.FrequencyChange]int)
		}
		cells[k][facts[i].Frequency]++
	}

	rows := make([]FrequencyRow, 0, len(cells))
	for k, counts := range cells {
		rows = append(rows, FrequencyRow{ReferenceMonth: k.month, Group: k.group, Counts: counts})
	}
	sortRows(rows, func(r FrequencyRow) pivotKey { return pivotKey{r.ReferenceMonth, r.Group} })
	return rows
}

func sortRows[T any](rows []T, key func(T) pivotKey) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		if !a.month.Equal(b.month) {
			return a.month.Before(b.month)
		}
		return a.group < b.group
	})
}
