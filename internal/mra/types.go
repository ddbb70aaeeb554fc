package mra

// these are the types corresponding to the MRA e-invoice schema submitted to
// the authority's transmission endpoint.
//
// All monetary fields are strings formatted to two decimal places; the
// authority rejects numeric JSON values.

import "github.com/unif001/mra-encrypt/internal/config"

// Tax codes used by the MRA schema to classify line items.
const (
	// TaxCodeVAT marks a VAT-bearing line item
	TaxCodeVAT = "TC01"

	// TaxCodeNonVAT marks a line item with no VAT
	TaxCodeNonVAT = "TC02"
)

// IssuedDateTimeLayout is the textual pattern the authority requires for
// dateTimeInvoiceIssued (yyyyMMdd HH:mm:ss, 17 characters).
const IssuedDateTimeLayout = "20060102 15:04:05"

// Invoice is the MRA e-invoice record. Exactly one Invoice is built per
// request; before encryption it is always wrapped in a single-element array,
// which is the shape the transmission endpoint expects.
type Invoice struct {
	InvoiceCounter        string `json:"invoiceCounter"`
	InvoiceIdentifier     string `json:"invoiceIdentifier"`
	TransactionType       string `json:"transactionType"`
	PersonType            string `json:"personType"`
	InvoiceTypeDesc       string `json:"invoiceTypeDesc"`
	Currency              string `json:"currency"`
	InvoiceRefIdentifier  string `json:"invoiceRefIdentifier"`
	PreviousNoteHash      string `json:"previousNoteHash"`
	TotalVatAmount        string `json:"totalVatAmount"`
	TotalAmtWoVatCur      string `json:"totalAmtWoVatCur"`
	TotalAmtWoVatMur      string `json:"totalAmtWoVatMur"`
	InvoiceTotal          string `json:"invoiceTotal"`
	DiscountTotalAmount   string `json:"discountTotalAmount"`
	TotalAmtPaid          string `json:"totalAmtPaid"`
	DateTimeInvoiceIssued string `json:"dateTimeInvoiceIssued"`

	Seller Seller `json:"seller"`
	Buyer  Buyer  `json:"buyer"`

	ItemList []InvoiceItem `json:"itemList"`

	SalesTransactions string `json:"salesTransactions"`
}

// Seller is the constant business identity of the submitting merchant,
// loaded from configuration at startup.
type Seller struct {
	Name            string `json:"name"`
	TradeName       string `json:"tradeName"`
	Tan             string `json:"tan"`
	Brn             string `json:"brn"`
	BusinessAddr    string `json:"businessAddr"`
	BusinessPhoneNo string `json:"businessPhoneNo"`

	// EbsCounterNo is optional; the EBS id itself travels in the request
	// headers, not here
	EbsCounterNo string `json:"ebsCounterNo"`

	CashierID string `json:"cashierId"`
}

// SellerFromConfig builds the fixed seller record from configuration.
func SellerFromConfig(cfg *config.ServerEnvironment) Seller {
	return Seller{
		Name:            cfg.SellerName,
		TradeName:       cfg.SellerTradeName,
		Tan:             cfg.SellerTan,
		Brn:             cfg.SellerBrn,
		BusinessAddr:    cfg.SellerAddress,
		BusinessPhoneNo: cfg.SellerPhone,
		EbsCounterNo:    cfg.SellerEbsCounterNo,
		CashierID:       cfg.CashierID,
	}
}

// Buyer is derived from the source invoice's customer fields.
type Buyer struct {
	Name         string `json:"name"`
	Tan          string `json:"tan"`
	Brn          string `json:"brn"`
	BusinessAddr string `json:"businessAddr"`
	BuyerType    string `json:"buyerType"`
	Nic          string `json:"nic"`
}

// InvoiceItem is a mapped line item. ItemNo is 1-based and equals the item's
// position in ItemList; TotalPrice always equals AmtWoVatCur + VatAmt.
type InvoiceItem struct {
	ItemNo          string `json:"itemNo"`
	Nature          string `json:"nature"`
	ProductCodeMra  string `json:"productCodeMra"`
	ProductCodeOwn  string `json:"productCodeOwn"`
	ItemDesc        string `json:"itemDesc"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unitPrice"`
	AmtWoVatCur     string `json:"amtWoVatCur"`
	AmtWoVatMur     string `json:"amtWoVatMur"`
	VatAmt          string `json:"vatAmt"`
	TaxCode         string `json:"taxCode"`
	TotalPrice      string `json:"totalPrice"`
	Discount        string `json:"discount"`
	DiscountedValue string `json:"discountedValue"`
	Currency        string `json:"currency"`
}
