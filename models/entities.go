// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Local kinds of the mirrored entities.
const (
	KindContact               = "contact"
	KindProject               = "project"
	KindLedgerAccount         = "ledger_account"
	KindSalesInvoice          = "sales_invoice"
	KindRecurringSalesInvoice = "recurring_sales_invoice"
	KindSalesInvoiceDetail    = "sales_invoice_detail"

	KindRecurringSalesInvoiceDetail = "recurring_sales_invoice_detail"

	// KindExternalDocument is the base kind shared by all invoice-like
	// documents, so a remote document changing type keeps one local row.
	KindExternalDocument = "document"
	// KindDocumentLine is the base kind shared by all document lines.
	KindDocumentLine = "document_line"
)

// Entity fields are pointers: a nil field is absent from the payload, while a
// zero value is a cleared field that still has to be pushed.

// Contact holds the mirrored fields of a remote contact.
type Contact struct {
	CompanyName    *string `json:"company_name,omitempty"`
	Firstname      *string `json:"firstname,omitempty"`
	Lastname       *string `json:"lastname,omitempty"`
	Address1       *string `json:"address1,omitempty"`
	Address2       *string `json:"address2,omitempty"`
	Zipcode        *string `json:"zipcode,omitempty"`
	City           *string `json:"city,omitempty"`
	Country        *string `json:"country,omitempty"`
	Email          *string `json:"email,omitempty"`
	CustomerID     *string `json:"customer_id,omitempty"`
	SendInvoicesTo *string `json:"send_invoices_to_email,omitempty"`
}

// Project holds the mirrored fields of a remote project.
type Project struct {
	Name  *string `json:"name,omitempty"`
	State *string `json:"state,omitempty"`
}

// LedgerAccount holds the mirrored fields of a remote ledger account.
type LedgerAccount struct {
	Name        *string `json:"name,omitempty"`
	AccountType *string `json:"account_type,omitempty"`
	AccountID   *string `json:"account_id,omitempty"`
}

// SalesInvoice holds the mirrored header fields of a remote sales invoice.
// Its lines are mirrored as separate SalesInvoiceDetail resources.
type SalesInvoice struct {
	ContactID        *RemoteID `json:"contact_id,omitempty"`
	Reference        *string   `json:"reference,omitempty"`
	InvoiceDate      *string   `json:"invoice_date,omitempty"`
	Currency         *string   `json:"currency,omitempty"`
	PricesAreInclTax *bool     `json:"prices_are_incl_tax,omitempty"`
}

// RecurringSalesInvoice holds the mirrored header fields of a remote
// recurring sales invoice.
type RecurringSalesInvoice struct {
	ContactID     *RemoteID `json:"contact_id,omitempty"`
	Reference     *string   `json:"reference,omitempty"`
	StartDate     *string   `json:"start_date,omitempty"`
	FrequencyType *string   `json:"frequency_type,omitempty"`
	Frequency     *int      `json:"frequency,omitempty"`
	AutoSend      *bool     `json:"auto_send,omitempty"`
}

// SalesInvoiceDetail is one line of a sales invoice or of a recurring sales
// invoice.
type SalesInvoiceDetail struct {
	Description     *string   `json:"description,omitempty"`
	Amount          *string   `json:"amount,omitempty"`
	Price           *string   `json:"price,omitempty"`
	LedgerAccountID *RemoteID `json:"ledger_account_id,omitempty"`
	TaxRateID       *RemoteID `json:"tax_rate_id,omitempty"`
	ProjectID       *RemoteID `json:"project_id,omitempty"`
}
