// Package recommend suggests menu items for an order through an external
// chat-completion service. Results are advisory and never change orders.
package recommend

import "context"

// Request describes what the guest has ordered so far.
type Request struct {
	OrderSummary        string `json:"order_summary"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
}

// Result is the service's answer.
type Result struct {
	Recommendations []string `json:"recommendations"`
	Reasoning       string   `json:"reasoning"`
}

// Recommender returns menu suggestions for a request.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (Result, error)
}
