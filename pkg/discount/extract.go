// Package discount extracts discount amounts from the nested item
// trees carried inside order payloads. Extraction is best effort: a
// payload that cannot be parsed contributes nothing, it never aborts
// the pipeline.
package discount

import (
	"encoding/json"
	"strconv"

	"lifecycle-monthly/pkg/models"
)

// Extraction is the outcome of walking one order's item tree.
type Extraction struct {
	// Values holds every discount found, in depth-first traversal
	// order. Not deduplicated: several sub-items of one order can
	// legitimately carry the same discount.
	Values []float64
	// SkippedValues counts discount leaves whose value could not be
	// decoded as a number; the rest of the tree still contributes.
	SkippedValues int
	// ParseErr is set when the payload itself failed to decode.
	ParseErr error
}

// Extract parses a serialized item-tree payload and collects all
// discount values at any depth. Empty or malformed payloads yield an
// empty extraction.
func Extract(payload string) Extraction {
	var out Extraction
	if payload == "" {
		return out
	}

	var items []models.ItemNode
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		out.ParseErr = err
		return out
	}
	for i := range items {
		collect(&items[i], &out)
	}
	return out
}

func collect(node *models.ItemNode, out *Extraction) {
	if node.TotalDiscount != nil && node.TotalDiscount.Value != nil {
		if v, ok := parseValue(node.TotalDiscount.Value); ok {
			out.Values = append(out.Values, v)
		} else {
			out.SkippedValues++
		}
	}
	for i := range node.GarnishItems {
		collect(&node.GarnishItems[i], out)
	}
}

// parseValue accepts the value as either a bare or a quoted number.
func parseValue(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Sum is the order's total discount; 0 when nothing was extracted.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
