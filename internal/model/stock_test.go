package model

import "testing"

func TestStockItemHealth(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		reserved float64
		minLevel float64
		want     StockHealth
	}{
		{"plenty available", 100, 10, 20, HealthOK},
		{"exactly at min level", 30, 10, 20, HealthLow},
		{"below min level", 25, 10, 20, HealthLow},
		{"exactly zero available", 10, 10, 20, HealthCritical},
		{"negative available", 5, 10, 20, HealthCritical},
		{"zero min level ok", 1, 0, 0, HealthOK},
		{"zero everything", 0, 0, 0, HealthCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &StockItem{Quantity: tt.quantity, Reserved: tt.reserved, MinLevel: tt.minLevel}
			if got := item.Health(); got != tt.want {
				t.Errorf("Health() = %v, want %v (available=%v)", got, tt.want, item.Available())
			}
		})
	}
}

// Lowering availability must never improve the health status.
func TestStockItemHealthMonotonic(t *testing.T) {
	rank := map[StockHealth]int{HealthOK: 2, HealthLow: 1, HealthCritical: 0}

	item := &StockItem{Quantity: 50, MinLevel: 20}
	prev := item.Health()
	for reserved := 0.0; reserved <= 60; reserved += 2.5 {
		item.Reserved = reserved
		got := item.Health()
		if rank[got] > rank[prev] {
			t.Fatalf("health improved from %v to %v as reserved rose to %v", prev, got, reserved)
		}
		prev = got
	}
	if prev != HealthCritical {
		t.Errorf("final health = %v, want CRITICAL", prev)
	}
}

func TestStockItemAvailable(t *testing.T) {
	item := &StockItem{Quantity: 45, Reserved: 10}
	if got := item.Available(); got != 35 {
		t.Errorf("Available() = %v, want 35", got)
	}
}
