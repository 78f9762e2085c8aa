// Package calculator computes how an order total is divided between payers.
package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroSubtotal is returned when tax cannot be apportioned.
	ErrZeroSubtotal = errors.New("subtotal cannot be zero")
	// ErrNoPayers is returned when there is nobody to split between.
	ErrNoPayers = errors.New("must have at least one payer")
)

// Share is one payer's portion of an order.
type Share struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Line is a single order line, optionally assigned to some payers.
type Line struct {
	Description string
	Amount      float64
	AssignedTo  []string
}

// Order is the input to a split: totals, payers and lines.
type Order struct {
	Total    float64
	Subtotal float64
	Payers   []string
	Lines    []Line
}

func (o Order) check() error {
	if len(o.Payers) == 0 {
		return ErrNoPayers
	}
	if o.Subtotal == 0 {
		return ErrZeroSubtotal
	}
	return nil
}

// Equal divides the order evenly among all payers.
func Equal(order Order) (map[string]*Share, error) {
	if err := order.check(); err != nil {
		return nil, err
	}

	n := float64(len(order.Payers))
	tax := order.Total - order.Subtotal
	shares := make(map[string]*Share, len(order.Payers))
	for _, p := range order.Payers {
		shares[p] = &Share{
			Subtotal: order.Subtotal / n,
			Tax:      tax / n,
			Total:    order.Total / n,
		}
	}
	return shares, nil
}

// Itemized charges each payer for the lines assigned to them and apportions
// tax in proportion to subtotal:
// payer_total = payer_subtotal × (1 + (total_tax / order_subtotal)).
// An order with no lines falls back to Equal.
func Itemized(order Order) (map[string]*Share, error) {
	if err := order.check(); err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return Equal(order)
	}

	shares := make(map[string]*Share, len(order.Payers))
	for _, p := range order.Payers {
		shares[p] = &Share{}
	}

	for _, line := range order.Lines {
		if len(line.AssignedTo) == 0 {
			continue
		}
		per := line.Amount / float64(len(line.AssignedTo))
		for _, payer := range line.AssignedTo {
			share, ok := shares[payer]
			if !ok {
				return nil, fmt.Errorf("line %q assigned to unknown payer %q", line.Description, payer)
			}
			share.Subtotal += per
		}
	}

	tax := order.Total - order.Subtotal
	for _, share := range shares {
		share.Tax = share.Subtotal * (tax / order.Subtotal)
		share.Total = share.Subtotal + share.Tax
	}
	return shares, nil
}
