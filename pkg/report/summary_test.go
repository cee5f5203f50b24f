package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecycle-monthly/pkg/models"
)

var (
	dec18 = time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	jan19 = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
)

func fact(customer string, month time.Time, group models.Group, status models.Status, freq models.FrequencyChange) models.CustomerMonthFact {
	return models.CustomerMonthFact{
		CustomerID:     customer,
		ReferenceMonth: month,
		Group:          group,
		Status:         status,
		Frequency:      freq,
	}
}

func TestStatusPivot(t *testing.T) {
	facts := []models.CustomerMonthFact{
		fact("c1", dec18, models.GroupTarget, models.StatusActive, models.FrequencyNotApplicable),
		fact("c2", dec18, models.GroupTarget, models.StatusChurned, models.FrequencyNotApplicable),
		fact("c3", dec18, models.GroupControl, models.StatusActive, models.FrequencyNotApplicable),
		fact("c1", jan19, models.GroupTarget, models.StatusChurned, models.FrequencyContraction),
	}

	rows := StatusPivot(facts)
	require.Len(t, rows, 3)

	// sorted by month then group
	assert.True(t, rows[0].ReferenceMonth.Equal(dec18))
	assert.Equal(t, models.GroupControl, rows[0].Group)
	assert.Equal(t, 1, rows[0].Counts[models.StatusActive])

	assert.Equal(t, models.GroupTarget, rows[1].Group)
	assert.Equal(t, 1, rows[1].Counts[models.StatusActive])
	assert.Equal(t, 1, rows[1].Counts[models.StatusChurned])

	assert.True(t, rows[2].ReferenceMonth.Equal(jan19))
	assert.Equal(t, 1, rows[2].Counts[models.StatusChurned])
}

func TestFrequencyPivot(t *testing.T) {
	facts := []models.CustomerMonthFact{
		fact("c1", jan19, models.GroupTarget, models.StatusActive, models.FrequencyGrowth),
		fact("c2", jan19, models.GroupTarget, models.StatusActive, models.FrequencyGrowth),
		fact("c3", jan19, models.GroupTarget, models.StatusInactive, models.FrequencyMaintenance),
	}

	rows := FrequencyPivot(facts)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Counts[models.FrequencyGrowth])
	assert.Equal(t, 1, rows[0].Counts[models.FrequencyMaintenance])
}

func TestWriteFactsCSV(t *testing.T) {
	lmOrder := 3
	lmAmount := 60.50
	ticket := 15.00

	facts := []models.CustomerMonthFact{
		{
			CustomerID:     "c1",
			ReferenceMonth: dec18,
			Group:          models.GroupTarget,
			CustomerAging:  6,
			Status:         models.StatusActive,
			TotalOrder:     3,
			Frequency:      models.FrequencyNotApplicable,
			TotalAmount:    60.50,
			TicketMedio:    &lmAmount,
		},
		{
			CustomerID:     "c1",
			ReferenceMonth: jan19,
			Group:          models.GroupTarget,
			CustomerAging:  7,
			Status:         models.StatusActive,
			LastStatus:     models.StatusActive,
			TotalOrder:     1,
			TotalOrderLM:   &lmOrder,
			Frequency:      models.FrequencyContraction,
			TotalAmount:    15.00,
			TotalAmountLM:  &lmAmount,
			TicketMedio:    &ticket,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFactsCSV(&buf, facts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"reference_month,customer_id,is_target,customer_aging,status,last_status,total_order,total_order_lm,alteracao_frequencia,total_amount,total_amount_lm,ticket_medio,ticket_medio_lm",
		lines[0])
	assert.Equal(t,
		"2018-12-01,c1,target,6,active,,3,,not_applicable,60.50,,60.50,",
		lines[1])
	assert.Equal(t,
		"2019-01-01,c1,target,7,active,active,1,3,contraction,15.00,60.50,15.00,",
		lines[2])
}
