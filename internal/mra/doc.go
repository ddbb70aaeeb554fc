// Package mra implements the bridge between Zoho-style invoices and the MRA
// (Mauritius Revenue Authority) e-invoicing platform: the invoice mapping to
// the MRA schema, the client for the authority's token and transmission
// services, and the sequential submission pipeline that drives the key
// exchange and the encrypted transmission.
package mra
