// Package paysnap is a payment intent lifecycle service built around the
// Midtrans Snap hosted checkout. It creates pending payments for subscription
// plans, hands the payer off to the gateway's payment page, and reconciles the
// gateway's asynchronous webhook notifications into a durable record of each
// payment's status.
//
// # Overview
//
// A checkout resolves a plan, opens a Snap transaction at the gateway and
// stores a pending payment carrying the Snap token. From that point on the
// stored record only changes through verified webhook notifications: each one
// is signature-checked, mapped to a canonical status and applied as a single
// conditional update, so duplicate and out-of-order deliveries converge on the
// same final state.
//
// # Architecture
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Your Apps     │◄──►│    Paysnap      │◄──►│    Midtrans     │
//	│                 │    │   (Service)     │    │     (Snap)      │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// Clients talk to the versioned API with an API key; Midtrans talks to the
// public webhook endpoint and authenticates each notification with a SHA-512
// signature over the order id, status code, gross amount and the merchant
// server key.
//
// # Quick Start
//
// Basic usage example:
//
//	package main
//
//	import (
//	    "context"
//	    "github.com/workhub/paysnap/provider"
//	    _ "github.com/workhub/paysnap/provider/midtrans" // Import to register provider
//	)
//
//	func main() {
//	    gateway, err := provider.CreateProvider("midtrans")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    err = gateway.Initialize(map[string]string{
//	        "serverKey":   "SB-Mid-server-your-key",
//	        "clientKey":   "SB-Mid-client-your-key",
//	        "environment": "sandbox", // or "production"
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    resp, err := gateway.CreateTransaction(context.Background(), provider.TransactionRequest{
//	        OrderID:     "plan-basic-1700000000000",
//	        GrossAmount: 50000,
//	        Currency:    "IDR",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = resp.RedirectURL // hand this to the payer
//	}
//
// The cmd package wires the full service: SQLite payment store, plan catalog
// seeding, optional OpenSearch event indexing and the chi HTTP API.
package paysnap
