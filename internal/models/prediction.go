package models

// Prediction is the outcome of predicting missing fields for one transaction.
// A transaction for which no pattern matched is a normal result with
// Matched=false and Confidence=0, never an error.
type Prediction struct {
	Transaction Transaction
	PatternKey  string
	Confidence  float64
	Matched     bool
}

// NoPrediction wraps a transaction that could not be matched to any pattern.
// The transaction is returned unchanged so the caller can present blank
// fields for manual entry.
func NoPrediction(tx Transaction) Prediction {
	return Prediction{Transaction: tx}
}
