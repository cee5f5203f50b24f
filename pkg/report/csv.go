package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"lifecycle-monthly/pkg/models"
)

var csvHeader = []string{
	"reference_month",
	"customer_id",
	"is_target",
	"customer_aging",
	"status",
	"last_status",
	"total_order",
	"total_order_lm",
	"alteracao_frequencia",
	"total_amount",
	"total_amount_lm",
	"ticket_medio",
	"ticket_medio_lm",
}

// WriteFactsCSV writes the fact table with one row per
// (customer, reference month). Absent last-month values and the
// undefined ticket of a zero-order month render as empty fields.
func WriteFactsCSV(w io.Writer, facts []models.CustomerMonthFact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range facts {
		f := &facts[i]
		row := []string{
			f.ReferenceMonth.Format("2006-01-02"),
			f.CustomerID,
			string(f.Group),
			strconv.Itoa(f.CustomerAging),
			string(f.Status),
			string(f.LastStatus),
			strconv.Itoa(f.TotalOrder),
			formatIntPtr(f.TotalOrderLM),
			string(f.Frequency),
			formatAmount(f.TotalAmount),
			formatFloatPtr(f.TotalAmountLM),
			formatFloatPtr(f.TicketMedio),
			formatFloatPtr(f.TicketMedioLM),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write fact %s/%s: %w",
				f.CustomerID, f.ReferenceMonth.Format("2006-01"), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
