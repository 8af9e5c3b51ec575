package service

import "github.com/straye-as/pipeline-api/internal/domain"

// QuoteLineItem is a single priced line of a quotation or sales order
type QuoteLineItem struct {
	Quantity  float64
	UnitPrice float64
}

// Quote holds the derived totals of a set of line items
type Quote struct {
	Subtotal       float64
	DiscountAmount float64
	TaxableAmount  float64
	TaxRatePercent float64
	TaxAmount      float64
	Total          float64
}

// PriceQuote derives subtotal, taxable amount, tax and total.
// The taxable amount may be negative when the discount exceeds the subtotal;
// tax is only applied to a positive taxable amount.
func PriceQuote(items []QuoteLineItem, discountAmount, taxRatePercent float64) Quote {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}

	taxable := subtotal - discountAmount
	var tax float64
	if taxable > 0 {
		tax = taxable * taxRatePercent / 100
	}

	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxRatePercent: taxRatePercent,
		TaxAmount:      tax,
		Total:          taxable + tax,
	}
}

// PriceQuoteRequest prices a validated request DTO
func PriceQuoteRequest(req *domain.PriceQuoteRequest) domain.QuoteDTO {
	items := make([]QuoteLineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = QuoteLineItem{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}

	q := PriceQuote(items, req.DiscountAmount, req.TaxRatePercent)
	return domain.QuoteDTO{
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmount,
		TaxableAmount:  q.TaxableAmount,
		TaxRatePercent: q.TaxRatePercent,
		TaxAmount:      q.TaxAmount,
		Total:          q.Total,
	}
}
