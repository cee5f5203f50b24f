package models

import (
	"encoding/json"
	"time"
)

/*
LOAD → silver dataset records as handed over by the cleaning queries.
*/

// Order is one cleaned order row. Items keeps the raw serialized item
// tree so the discount extraction can parse it lazily.
type Order struct {
	OrderID          string
	CustomerID       string
	MerchantID       string
	CreatedAt        time.Time
	TotalAmount      float64
	Items            string
	TotalDiscountSum float64 // filled by the enrichment step
}

// Consumer is a deduplicated account record. Active is the source
// system flag, unrelated to the derived lifecycle status.
type Consumer struct {
	CustomerID string
	CreatedAt  time.Time
	Active     bool
}

// Merchant is a deduplicated restaurant record.
type Merchant struct {
	MerchantID string
	CreatedAt  time.Time
	Enabled    bool
}

// Group is the A/B test arm a customer belongs to.
type Group string

const (
	GroupControl Group = "control"
	GroupTarget  Group = "target"
)

// Assignment maps a customer to its test group. At most one per
// customer; duplicates abort the classification.
type Assignment struct {
	CustomerID string
	Group      Group
}

/*
ITEMS → nested item tree carried inside Order.Items.
*/

// ItemNode is one node of an order's item tree. Garnish items are
// sub-items (combo add-ons) and can nest arbitrarily deep.
type ItemNode struct {
	TotalDiscount *ItemDiscount `json:"totalDiscount"`
	GarnishItems  []ItemNode    `json:"garnishItems"`
}

// ItemDiscount wraps a node's discount. Source payloads carry the
// value as either a quoted or a bare JSON number, so decoding is
// deferred to the extraction walk.
type ItemDiscount struct {
	Value json.RawMessage `json:"value"`
}

/*
COMPUTE → derived entities.
*/

// Status is the monthly lifecycle classification.
type Status string

const (
	StatusActive      Status = "active"
	StatusChurned     Status = "churned"
	StatusReactivated Status = "reactivated"
	StatusInactive    Status = "inactive"
	// StatusUnclassified marks a transition the table cannot resolve.
	// Reaching it is a logic gap and aborts the run.
	StatusUnclassified Status = "unclassified"
)

// FrequencyChange compares a month's order count against the
// previous month's.
type FrequencyChange string

const (
	FrequencyNotApplicable FrequencyChange = "not_applicable"
	FrequencyGrowth        FrequencyChange = "growth"
	FrequencyContraction   FrequencyChange = "contraction"
	FrequencyMaintenance   FrequencyChange = "maintenance"
)

// MonthAggregate holds per-customer activity for one reference month.
type MonthAggregate struct {
	CustomerID     string
	ReferenceMonth time.Time
	TotalOrder     int     // distinct orders
	TotalAmount    float64 // summed, rounded to 2 decimals
	TicketMedio    float64 // TotalAmount / TotalOrder, rounded
	TotalMerchant  int     // distinct merchants
}

// CustomerMonthFact is one row of the lifecycle fact table, keyed by
// (CustomerID, ReferenceMonth). LM pointers carry the previous
// month's values and are nil on a customer's first reference month;
// TicketMedio is nil when the month had no orders.
type CustomerMonthFact struct {
	CustomerID     string
	ReferenceMonth time.Time
	Group          Group
	CustomerAging  int
	Status         Status
	LastStatus     Status // empty on the first reference month
	TotalOrder     int
	TotalOrderLM   *int
	Frequency      FrequencyChange
	TotalAmount    float64
	TotalAmountLM  *float64
	TicketMedio    *float64
	TicketMedioLM  *float64
}
