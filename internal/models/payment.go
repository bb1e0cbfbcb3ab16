package models

import "time"

// Card carries the card-like input for a simulated payment.
type Card struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	Expiry         string `json:"expiry"` // MM/YY
	CVV            string `json:"cvv"`
}

// Receipt is the result of a successful simulated charge.
type Receipt struct {
	TransactionID string    `json:"transactionId"`
	GatewayRef    string    `json:"gatewayRef"`
	PaymentDate   time.Time `json:"paymentDate"`
}

// PaymentResponse is returned after a fine has been paid.
type PaymentResponse struct {
	Receipt Receipt `json:"receipt"`
	Offence Offence `json:"offence"`
}

// OffenceReceipt is the printable receipt view for a paid offence.
type OffenceReceipt struct {
	Authority     string    `json:"authority"`
	Command       string    `json:"command"`
	Offence       Offence   `json:"offence"`
	TransactionID string    `json:"transactionId"`
	GatewayRef    string    `json:"gatewayRef"`
	PaymentDate   time.Time `json:"paymentDate"`
}
