package emit

import (
	"sort"
	"strings"

	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/normalize"
)

var cancelKeywords = []string{"cancel", "devol", "return", "reembols"}

// IsCancelled reports whether a status text or cancellation reason marks the
// order as cancelled or returned.
func IsCancelled(status, reason string) bool {
	if strings.TrimSpace(reason) != "" {
		return true
	}
	return containsAny(normalize.CanonicalHeader(status), cancelKeywords)
}

// IsFulfillment reports whether any of texts names marketplace-operated
// fulfillment. Keywords are compared against the accent-free lower-case text.
func IsFulfillment(keywords []string, texts ...string) bool {
	for _, t := range texts {
		if containsAny(normalize.CanonicalHeader(t), keywords) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// groupOrders assembles orders from the lines of a batch, sorted by source id.
// Header fields take the first non-empty value; the order is cancelled when any
// line says so.
func groupOrders(lines []models.OrderLine) []Order {
	byID := make(map[string]*Order)
	qty := make(map[string]map[string]int)
	var ids []string

	for _, l := range lines {
		o, ok := byID[l.SourceOrderID]
		if !ok {
			o = &Order{SourceID: l.SourceOrderID, OrderID: OrderPrefix + l.SourceOrderID}
			byID[l.SourceOrderID] = o
			qty[l.SourceOrderID] = make(map[string]int)
			ids = append(ids, l.SourceOrderID)
		}
		o.Lines++
		if o.Date == nil && l.OrderDate != nil {
			o.Date = l.OrderDate
		}
		o.Status = firstNonEmpty(o.Status, l.StatusText)
		o.CancelReason = firstNonEmpty(o.CancelReason, strings.TrimSpace(l.CancelReason))
		o.Channel = firstNonEmpty(o.Channel, l.Channel)
		o.ShippingMethod = firstNonEmpty(o.ShippingMethod, l.ShippingMethod)
		if IsCancelled(l.StatusText, l.CancelReason) {
			o.Cancelled = true
		}

		switch {
		case l.Status != models.LineMatched || l.ResolvedSKU == nil:
			o.Pending++
		case l.Quantity > 0:
			qty[l.SourceOrderID][*l.ResolvedSKU] += l.Quantity
		}
	}

	sort.Strings(ids)
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		o := byID[id]
		skus := make([]string, 0, len(qty[id]))
		for sku := range qty[id] {
			skus = append(skus, sku)
		}
		sort.Strings(skus)
		for _, sku := range skus {
			o.Items = append(o.Items, Item{SKU: sku, Quantity: qty[id][sku]})
		}
		out = append(out, *o)
	}
	return out
}

func firstNonEmpty(current, next string) string {
	if current != "" {
		return current
	}
	return strings.TrimSpace(next)
}
