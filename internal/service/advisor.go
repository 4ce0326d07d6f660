package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/menumatch"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/recommend"
)

// RecommendationRequest asks for suggestions either from a free-text summary
// or from an existing order.
type RecommendationRequest struct {
	OrderID             string
	OrderSummary        string
	DietaryRestrictions string
}

// Recommendation is the advisor's answer. MenuItems holds the suggestions
// that name exactly one item on the current menu, in suggestion order.
type Recommendation struct {
	Recommendations []string         `json:"recommendations"`
	Reasoning       string           `json:"reasoning"`
	MenuItems       []model.MenuItem `json:"menu_items"`
}

// Advisor wraps the recommendation service. It reads orders but never
// changes them.
type Advisor struct {
	restaurant  *Restaurant
	recommender recommend.Recommender
}

func NewAdvisor(r *Restaurant, rec recommend.Recommender) *Advisor {
	return &Advisor{restaurant: r, recommender: rec}
}

func (a *Advisor) Recommend(ctx context.Context, req RecommendationRequest) (Recommendation, error) {
	if !a.restaurant.SectionEnabled(enum.SectionRecommendations) {
		return Recommendation{}, ErrSectionDisabled
	}

	summary := strings.TrimSpace(req.OrderSummary)
	if summary == "" && req.OrderID != "" {
		o, err := a.restaurant.Order(req.OrderID)
		if err != nil {
			return Recommendation{}, err
		}
		summary = SummarizeOrder(o.Items)
	}
	if summary == "" {
		return Recommendation{}, ErrSummaryRequired
	}

	res, err := a.recommender.Recommend(ctx, recommend.Request{
		OrderSummary:        summary,
		DietaryRestrictions: strings.TrimSpace(req.DietaryRestrictions),
	})
	if err != nil {
		return Recommendation{}, external("recommendation", err)
	}

	return Recommendation{
		Recommendations: res.Recommendations,
		Reasoning:       res.Reasoning,
		MenuItems:       a.matchMenu(ctx, res.Recommendations),
	}, nil
}

// matchMenu resolves suggestions to menu items. Matching is best effort: a
// menu that cannot be loaded yields no items rather than an error.
func (a *Advisor) matchMenu(ctx context.Context, suggestions []string) []model.MenuItem {
	out := []model.MenuItem{}
	if len(suggestions) == 0 {
		return out
	}
	menu, err := a.restaurant.MenuItems(ctx, "")
	if err != nil {
		log.Printf("WARN: recommend: match menu: %v", err)
		return out
	}

	m := menumatch.New(menu)
	seen := make(map[string]bool, len(suggestions))
	for _, text := range suggestions {
		res := m.Match(text)
		if res.Status != menumatch.Matched || seen[res.Item.ID] {
			continue
		}
		seen[res.Item.ID] = true
		out = append(out, *res.Item)
	}
	return out
}

// SummarizeOrder renders order lines as "2x Margherita, 1x Cola".
func SummarizeOrder(items []model.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.MenuItem.Name))
	}
	return strings.Join(parts, ", ")
}
