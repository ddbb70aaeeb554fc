package mra

// zoho.go defines the source-side invoice types as Zoho webhooks deliver
// them. Zoho is loose about encodings: invoice_data may arrive as a JSON
// object or as a JSON-encoded string, line_items likewise, and numeric
// fields may be numbers or quoted strings. The types here absorb all of
// those shapes so the mapper only deals with one.

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// SubmitInvoiceRequest is the body of POST /api/mra-process.
type SubmitInvoiceRequest struct {
	InvoiceID     FlexString   `json:"invoice_id"`
	InvoiceNumber FlexString   `json:"invoice_number"`
	InvoiceData   *InvoiceData `json:"invoice_data"`
}

// InvoiceData carries the source invoice fields used by the mapping.
type InvoiceData struct {
	CurrencyCode string `json:"currency_code"`

	TaxTotal decimal.Decimal `json:"tax_total"`
	SubTotal decimal.Decimal `json:"sub_total"`
	Total    decimal.Decimal `json:"total"`
	Discount decimal.Decimal `json:"discount"`

	CustomerName   string         `json:"customer_name"`
	BillingAddress BillingAddress `json:"billing_address"`

	// Zoho custom fields carrying the buyer's tax identifiers
	BuyerVatNo string `json:"cf_vat_reg_no"`
	BuyerBrn   string `json:"cf_brn"`

	Date        string `json:"date"`
	CreatedTime string `json:"created_time"`

	LineItems LineItems `json:"line_items"`
}

// UnmarshalJSON accepts invoice_data both as an object and as a JSON-encoded
// string containing an object.
func (d *InvoiceData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var embedded string
		if err := json.Unmarshal(data, &embedded); err != nil {
			return err
		}
		data = []byte(embedded)
	}

	type alias InvoiceData // avoid recursing into this method
	var parsed alias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	*d = InvoiceData(parsed)
	return nil
}

type BillingAddress struct {
	Address string `json:"address"`
}

// LineItems is a line item array that may arrive JSON-encoded as a string.
type LineItems []LineItem

func (l *LineItems) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var embedded string
		if err := json.Unmarshal(data, &embedded); err != nil {
			return err
		}
		data = []byte(embedded)
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// LineItem is a source invoice line.
type LineItem struct {
	ItemID         FlexString       `json:"item_id"`
	Name           string           `json:"name"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Rate           decimal.Decimal  `json:"rate"`
	ItemTotal      *decimal.Decimal `json:"item_total"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	LineItemTaxes  []LineItemTax    `json:"line_item_taxes"`
}

type LineItemTax struct {
	TaxName   string          `json:"tax_name"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// FlexString is a string that also accepts JSON numbers (Zoho sends ids both
// ways).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// quantityString renders a quantity without forcing a decimal scale
// ("2", "1.5").
func quantityString(q decimal.Decimal) string {
	if q.IsInteger() {
		return strconv.FormatInt(q.IntPart(), 10)
	}
	return q.String()
}
