package calculator

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestItemized(t *testing.T) {
	tests := []struct {
		name     string
		order    Order
		wantErr  error
		validate func(t *testing.T, shares map[string]*Share)
	}{
		{
			name: "two payers with proportional tax",
			order: Order{
				Total:    33.0,
				Subtotal: 30.0,
				Payers:   []string{"Alice", "Bob"},
				Lines: []Line{
					{Description: "Pizza", Amount: 20.0, AssignedTo: []string{"Alice", "Bob"}},
					{Description: "Salad", Amount: 10.0, AssignedTo: []string{"Alice"}},
				},
			},
			validate: func(t *testing.T, shares map[string]*Share) {
				// Alice: 10 + 10 = 20, tax 2. Bob: 10, tax 1.
				alice := shares["Alice"]
				if !near(alice.Subtotal, 20) || !near(alice.Tax, 2) || !near(alice.Total, 22) {
					t.Errorf("Alice = %+v, want 20/2/22", *alice)
				}
				bob := shares["Bob"]
				if !near(bob.Subtotal, 10) || !near(bob.Total, 11) {
					t.Errorf("Bob = %+v, want 10/1/11", *bob)
				}
			},
		},
		{
			name: "unassigned lines are skipped",
			order: Order{
				Total:    10.0,
				Subtotal: 10.0,
				Payers:   []string{"Alice"},
				Lines: []Line{
					{Description: "Water", Amount: 4.0},
					{Description: "Bread", Amount: 6.0, AssignedTo: []string{"Alice"}},
				},
			},
			validate: func(t *testing.T, shares map[string]*Share) {
				if !near(shares["Alice"].Subtotal, 6) {
					t.Errorf("Alice subtotal = %v, want 6", shares["Alice"].Subtotal)
				}
			},
		},
		{
			name: "no lines falls back to equal",
			order: Order{
				Total:    90.0,
				Subtotal: 75.0,
				Payers:   []string{"Alice", "Bob", "Charlie"},
			},
			validate: func(t *testing.T, shares map[string]*Share) {
				for _, p := range []string{"Alice", "Bob", "Charlie"} {
					s := shares[p]
					if !near(s.Subtotal, 25) || !near(s.Tax, 5) || !near(s.Total, 30) {
						t.Errorf("%s = %+v, want 25/5/30", p, *s)
					}
				}
			},
		},
		{
			name: "unknown payer on a line",
			order: Order{
				Total:    10.0,
				Subtotal: 10.0,
				Payers:   []string{"Alice"},
				Lines:    []Line{{Description: "Cake", Amount: 10.0, AssignedTo: []string{"Zed"}}},
			},
			wantErr: errors.New("any"),
		},
		{
			name:    "zero subtotal",
			order:   Order{Total: 10.0, Payers: []string{"Alice"}},
			wantErr: ErrZeroSubtotal,
		},
		{
			name:    "no payers",
			order:   Order{Total: 10.0, Subtotal: 10.0},
			wantErr: ErrNoPayers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Itemized(tt.order)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Itemized() error = nil, want %v", tt.wantErr)
				}
				if tt.wantErr == ErrZeroSubtotal || tt.wantErr == ErrNoPayers {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("Itemized() error = %v, want %v", err, tt.wantErr)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Itemized() error = %v", err)
			}
			tt.validate(t, shares)
		})
	}
}

func TestEqual(t *testing.T) {
	shares, err := Equal(Order{Total: 33.0, Subtotal: 30.0, Payers: []string{"Alice", "Bob"}})
	if err != nil {
		t.Fatalf("Equal() error = %v", err)
	}
	for _, p := range []string{"Alice", "Bob"} {
		s := shares[p]
		if !near(s.Subtotal, 15) || !near(s.Tax, 1.5) || !near(s.Total, 16.5) {
			t.Errorf("%s = %+v, want 15/1.5/16.5", p, *s)
		}
	}
}
