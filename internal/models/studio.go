package models

// Studio holds the payment policy a coach has agreed with a studio. Payment
// amounts for its sessions are always derived from these fields at read time.
type Studio struct {
	ID                int64   `json:"id"`
	TenantKey         string  `json:"-"`
	Name              string  `json:"name"`
	PaymentPerClient  float64 `json:"paymentPerClient"`
	MinimumPayment    float64 `json:"minimumPayment"`
	StartCountFrom    int     `json:"startCountFrom"`
	PaymentIndividual float64 `json:"paymentIndividual"`
	Color             string  `json:"color"`
}

const DefaultStudioColor = "#FF6B6B"
