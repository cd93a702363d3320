package catalog

import (
	"strconv"

	"storefront/internal/models"
)

// Price bracket labels as the storefront sidebar presents them.
const (
	BracketUnder500   = "Under ₹500"
	Bracket500To1000  = "₹500 - ₹1,000"
	Bracket1000To2000 = "₹1,000 - ₹2,000"
	BracketAbove2000  = "Above ₹2,000"
)

// Selection is the shopper's current filter state. All non-empty criteria
// are combined with AND. Brands and AgeGroups are carried for forward
// compatibility; no product data populates them yet, so they never
// exclude anything.
type Selection struct {
	Categories []string `json:"categories"`
	PriceRange string   `json:"price_range"`
	Rating     string   `json:"rating"`
	Brands     []string `json:"brands"`
	AgeGroups  []string `json:"age_groups"`
}

// Empty reports whether the selection constrains nothing.
func (s Selection) Empty() bool {
	return len(s.Categories) == 0 && s.PriceRange == "" && s.Rating == ""
}

// ParsePrice extracts the integer value of a display price by stripping
// every non-digit rune ("₹1,299" -> 1299). A string with no digits is an
// error.
func ParsePrice(s string) (int, error) {
	digits := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
	}
	if len(digits) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(string(digits))
}

// Filter returns the subsequence of products satisfying every non-empty
// criterion of the selection, in their original order. It allocates only
// the result slice and is safe to call on every request.
func Filter(products []models.Product, sel Selection) []models.Product {
	if sel.Empty() {
		out := make([]models.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Product, sel Selection) bool {
	if len(sel.Categories) > 0 && !contains(sel.Categories, p.Category) {
		return false
	}
	if sel.PriceRange != "" && !inBracket(p.Price, sel.PriceRange) {
		return false
	}
	if sel.Rating != "" {
		if threshold, err := strconv.Atoi(sel.Rating); err == nil && p.Rating < float64(threshold) {
			return false
		}
	}
	return true
}

// inBracket classifies a display price into one of the four brackets.
// Boundaries 500, 1000 and 2000 each belong to exactly one bracket: 500
// and 1000 to the middle bracket, 2000 to the upper-middle one. An
// unparsable price matches no bracket, and an unknown label matches
// everything (it constrains nothing, same as no label).
func inBracket(price, label string) bool {
	switch label {
	case BracketUnder500, Bracket500To1000, Bracket1000To2000, BracketAbove2000:
	default:
		return true
	}

	v, err := ParsePrice(price)
	if err != nil {
		return false
	}

	switch label {
	case BracketUnder500:
		return v < 500
	case Bracket500To1000:
		return v >= 500 && v <= 1000
	case Bracket1000To2000:
		return v > 1000 && v <= 2000
	default:
		return v > 2000
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
