package mra

// mapper.go transforms a source (Zoho) invoice into the MRA schema.
//
// Validation is strict: requests missing the issue date, line items,
// customer name, or the buyer's tax identifiers are rejected before any
// authority call is made.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// issueDateLayouts are the source timestamp shapes accepted for the invoice
// issue date. Zoho sends created_time with a zone offset ("+0400"); manual
// payloads tend to omit it.
var issueDateLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MapInvoice validates the source invoice and builds the MRA invoice record.
// All failures are validation errors naming the offending field.
func MapInvoice(req *SubmitInvoiceRequest, seller Seller) (*Invoice, error) {
	if req.InvoiceID == "" || req.InvoiceNumber == "" || req.InvoiceData == nil {
		return nil, NewValidationError("missing required fields: invoice_id, invoice_number, invoice_data")
	}

	data := req.InvoiceData

	issuedAt, err := parseIssueDateTime(data.Date, data.CreatedTime)
	if err != nil {
		return nil, err
	}

	if len(data.LineItems) == 0 {
		return nil, NewValidationError("invoice_data.line_items must be a non-empty array")
	}

	if data.CustomerName == "" {
		return nil, NewValidationError("invoice_data.customer_name is required")
	}

	if data.BuyerVatNo == "" {
		return nil, NewValidationError("buyer VAT number (invoice_data.cf_vat_reg_no) is required")
	}
	if data.BuyerBrn == "" {
		return nil, NewValidationError("buyer business registration number (invoice_data.cf_brn) is required")
	}

	currency := data.CurrencyCode
	if currency == "" {
		currency = "MUR"
	}

	items := make([]InvoiceItem, 0, len(data.LineItems))
	for idx, line := range data.LineItems {
		items = append(items, mapLineItem(line, idx, currency))
	}

	return &Invoice{
		InvoiceCounter:        req.InvoiceID.String(),
		InvoiceIdentifier:     fmt.Sprintf("INV-%s", req.InvoiceNumber),
		TransactionType:       "B2C",
		PersonType:            "VATR",
		InvoiceTypeDesc:       "STD",
		Currency:              currency,
		InvoiceRefIdentifier:  "",
		PreviousNoteHash:      "0",
		TotalVatAmount:        data.TaxTotal.StringFixed(2),
		TotalAmtWoVatCur:      data.SubTotal.StringFixed(2),
		TotalAmtWoVatMur:      data.SubTotal.StringFixed(2),
		InvoiceTotal:          data.Total.StringFixed(2),
		DiscountTotalAmount:   data.Discount.StringFixed(2),
		TotalAmtPaid:          data.Total.StringFixed(2),
		DateTimeInvoiceIssued: issuedAt,
		Seller:                seller,
		Buyer: Buyer{
			Name:         data.CustomerName,
			Tan:          data.BuyerVatNo,
			Brn:          data.BuyerBrn,
			BusinessAddr: data.BillingAddress.Address,
			BuyerType:    "VATR",
			Nic:          "",
		},
		ItemList:          items,
		SalesTransactions: "CASH",
	}, nil
}

// mapLineItem maps one source line to the MRA item schema. idx is the
// 0-based array position; itemNo on the wire is 1-based.
func mapLineItem(line LineItem, idx int, currency string) InvoiceItem {
	quantity := line.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}

	// amount without VAT: supplied item_total wins, otherwise quantity x rate
	var amtWoVat decimal.Decimal
	if line.ItemTotal != nil {
		amtWoVat = line.ItemTotal.Round(2)
	} else {
		amtWoVat = quantity.Mul(line.Rate).Round(2)
	}

	vatAmt := decimal.Zero
	taxCode := TaxCodeNonVAT
	if len(line.LineItemTaxes) > 0 {
		tax := line.LineItemTaxes[0]
		vatAmt = tax.TaxAmount.Round(2)
		if isVatTaxName(tax.TaxName) {
			taxCode = TaxCodeVAT
		}
	}

	return InvoiceItem{
		ItemNo:          strconv.Itoa(idx + 1),
		Nature:          "GOODS",
		ProductCodeMra:  "",
		ProductCodeOwn:  line.ItemID.String(),
		ItemDesc:        line.Name,
		Quantity:        quantityString(quantity),
		UnitPrice:       line.Rate.StringFixed(2),
		AmtWoVatCur:     amtWoVat.StringFixed(2),
		AmtWoVatMur:     amtWoVat.StringFixed(2),
		VatAmt:          vatAmt.StringFixed(2),
		TaxCode:         taxCode,
		TotalPrice:      amtWoVat.Add(vatAmt).StringFixed(2),
		Discount:        line.DiscountAmount.StringFixed(2),
		DiscountedValue: amtWoVat.StringFixed(2),
		Currency:        currency,
	}
}

// isVatTaxName reports whether a source tax name denotes VAT. The match is a
// case-insensitive substring check, per the authority's classification rule.
func isVatTaxName(name string) bool {
	return strings.Contains(strings.ToUpper(name), "VAT")
}

// parseIssueDateTime parses the invoice issue timestamp (date preferred,
// created_time as fallback) and renders it in the authority's fixed pattern.
// The wall-clock time is kept as sent; no timezone conversion is applied.
func parseIssueDateTime(date, createdTime string) (string, error) {
	source := date
	if source == "" {
		source = createdTime
	}
	if source == "" {
		return "", NewValidationError("invoice issue date is required (invoice_data.date or created_time)")
	}

	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, source); err == nil {
			return t.Format(IssuedDateTimeLayout), nil
		}
	}

	return "", NewValidationError(fmt.Sprintf("invoice issue date %q is not an ISO-like timestamp", source))
}
