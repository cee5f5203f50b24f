// Package pipeline wires dataset loading, discount enrichment,
// monthly aggregation and lifecycle classification into one run.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lifecycle-monthly/pkg/aggregate"
	"lifecycle-monthly/pkg/database"
	"lifecycle-monthly/pkg/discount"
	"lifecycle-monthly/pkg/lifecycle"
	"lifecycle-monthly/pkg/models"
)

// Summary is the outcome of one pipeline run: the fact table plus the
// aggregated counts of recoverable issues. Fatal errors never reach a
// Summary, they abort Run.
type Summary struct {
	Facts []models.CustomerMonthFact

	OrdersRead        int
	DiscountedOrders  int // orders with at least one extracted discount
	MalformedPayloads int // item payloads that failed to parse
	SkippedDiscounts  int // discount leaves with an undecodable value
	UnknownMerchants  int // orders referencing a merchant absent from the merchant dataset
	UnknownConsumers  int // assigned customers absent from the consumer dataset
}

// Pipeline runs the lifecycle derivation against one database handle.
type Pipeline struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func New(db *sql.DB, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{db: db, log: log}
}

// Run executes the full derivation for the given reference months.
func (p *Pipeline) Run(ctx context.Context, months []time.Time) (*Summary, error) {
	var (
		orders      []models.Order
		consumers   []models.Consumer
		merchants   []models.Merchant
		assignments []models.Assignment
	)

	// The four datasets are independent, load them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = database.LoadOrders(gctx, p.db)
		return err
	})
	g.Go(func() error {
		var err error
		consumers, err = database.LoadConsumers(gctx, p.db)
		return err
	})
	g.Go(func() error {
		var err error
		merchants, err = database.LoadMerchants(gctx, p.db)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = database.LoadAssignments(gctx, p.db)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	p.log.Infow("datasets loaded",
		"orders", len(orders),
		"consumers", len(consumers),
		"merchants", len(merchants),
		"assignments", len(assignments),
	)

	summary := &Summary{OrdersRead: len(orders)}
	p.enrichDiscounts(orders, summary)
	summary.UnknownMerchants = countUnknownMerchants(orders, merchants)

	aggs := aggregate.Monthly(orders)
	p.log.Infow("orders aggregated", "groups", len(aggs))

	res, err := lifecycle.Classify(months, consumers, assignments, aggs)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	summary.Facts = res.Facts
	summary.UnknownConsumers = res.UnknownConsumers

	p.log.Infow("run complete",
		"facts", len(summary.Facts),
		"discounted_orders", summary.DiscountedOrders,
		"malformed_payloads", summary.MalformedPayloads,
		"skipped_discounts", summary.SkippedDiscounts,
		"unknown_merchants", summary.UnknownMerchants,
		"unknown_consumers", summary.UnknownConsumers,
	)
	return summary, nil
}

// enrichDiscounts fills TotalDiscountSum on every order. Extraction
// failures are counted, never fatal.
func (p *Pipeline) enrichDiscounts(orders []models.Order, summary *Summary) {
	bar := progressbar.Default(int64(len(orders)))
	for i := range orders {
		ex := discount.Extract(orders[i].Items)
		if ex.ParseErr != nil {
			summary.MalformedPayloads++
			p.log.Debugw("malformed items payload",
				"order_id", orders[i].OrderID, "error", ex.ParseErr)
		}
		summary.SkippedDiscounts += ex.SkippedValues
		if len(ex.Values) > 0 {
			summary.DiscountedOrders++
		}
		orders[i].TotalDiscountSum = discount.Sum(ex.Values)
		_ = bar.Add(1)
	}
}

func countUnknownMerchants(orders []models.Order, merchants []models.Merchant) int {
	known := make(map[string]struct{}, len(merchants))
	for _, m := range merchants {
		known[m.MerchantID] = struct{}{}
	}
	n := 0
	for i := range orders {
		if _, ok := known[orders[i].MerchantID]; !ok {
			n++
		}
	}
	return n
}
