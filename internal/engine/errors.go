package engine

import "fmt"

// Kind classifies why a player action was rejected. Kinds are errors
// themselves so callers can test with errors.Is(err, engine.IllegalPrice).
type Kind string

const (
	IllegalPrice      Kind = "illegal price"      // embargoed without a charter
	InsufficientFunds Kind = "insufficient funds" // settled price exceeds cash
	InvalidQuantity   Kind = "invalid quantity"   // non-positive or beyond stock/cargo
	CargoFull         Kind = "cargo hold full"
	NoRoute           Kind = "no route"
	InvalidSelection  Kind = "invalid selection" // unknown good or city
	WrongCity         Kind = "wrong city"
	AlreadyOwned      Kind = "already owned"
	GameOver          Kind = "game over"
)

func (k Kind) Error() string { return string(k) }

// ActionError is a rejected action. State is never mutated when one is
// returned.
type ActionError struct {
	Kind   Kind
	Good   string
	City   string
	Detail string
}

func (e *ActionError) Error() string {
	msg := string(e.Kind)
	if e.Good != "" {
		msg += " for " + e.Good
	}
	if e.City != "" {
		msg += " in " + e.City
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ActionError) Unwrap() error { return e.Kind }

func reject(kind Kind, good, city, format string, args ...any) *ActionError {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &ActionError{Kind: kind, Good: good, City: city, Detail: detail}
}
