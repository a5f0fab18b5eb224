// Package negotiation settles a trade price from opposing offers by picking
// the simplest value in the gap between the seller-leaning and buyer-leaning
// offer sets.
package negotiation

import (
	"errors"

	"github.com/Lunthu/Surreal-Phoenicians/internal/surreal"
)

// Opening offer factors relative to the quoted price.
const (
	BuyerOpening  = 0.85 // player tries to buy lower
	MerchantAsk   = 1.05
	SellerOpening = 1.15 // player tries to sell higher
	MerchantBid   = 0.95
)

var (
	// ErrNoPermit is returned when the quoted price is embargoed.
	ErrNoPermit = errors.New("negotiation: price requires a permit")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("negotiation: quantity must be positive")
)

// Cut holds the offers of one negotiation. L collects seller-leaning
// offers, R buyer-leaning ones. A Cut lives for a single resolution.
type Cut struct {
	L []surreal.Number
	R []surreal.Number
}

// AddOffer files an offer on the seller side when isSeller, else on the
// buyer side.
func (c *Cut) AddOffer(price surreal.Number, isSeller bool) {
	if isSeller {
		c.L = append(c.L, price)
	} else {
		c.R = append(c.R, price)
	}
}

// SimplestInGap returns the simplest value strictly between max(L) and
// min(R): the real midpoint, a neutral infinitesimal, and the stricter of
// the two legal constraints. It reports false when either side is empty or
// the sets overlap.
func (c *Cut) SimplestInGap() (surreal.Number, bool) {
	if len(c.L) == 0 || len(c.R) == 0 {
		return surreal.Number{}, false
	}

	maxL := surreal.Max(c.L[0], c.L[1:]...)
	minR := surreal.Min(c.R[0], c.R[1:]...)
	if maxL.GreaterEq(minR) {
		return surreal.Number{}, false
	}

	return surreal.New(
		(maxL.Real+minR.Real)/2,
		0,
		max(maxL.Omega, minR.Omega),
	), true
}

// Resolve turns a quoted unit price into the total price for quantity
// units. When the opening offers leave no gap the quoted price stands;
// that is an agreement, not a failure.
func Resolve(base surreal.Number, buying bool, quantity int) (surreal.Number, error) {
	if !base.IsLegal() {
		return surreal.Number{}, ErrNoPermit
	}
	if quantity <= 0 {
		return surreal.Number{}, ErrInvalidQuantity
	}

	var cut Cut
	if buying {
		cut.AddOffer(base.Scale(BuyerOpening), false)
		cut.AddOffer(base.Scale(MerchantAsk), true)
	} else {
		cut.AddOffer(base.Scale(SellerOpening), true)
		cut.AddOffer(base.Scale(MerchantBid), false)
	}

	unit, ok := cut.SimplestInGap()
	if !ok {
		unit = base
	}
	return unit.Scale(float64(quantity)), nil
}
