package domain

import "testing"

func validDraft() OrderDraft {
	return OrderDraft{
		SenderName:         "Nguyễn Văn A",
		SenderPhone:        "0901234567",
		RecipientName:      "Trần Thị B",
		RecipientPhone:     "0907654321",
		PickupAddress:      "123 Nguyễn Huệ, Quận 1",
		DestinationAddress: "147 Pasteur, Quận 3",
	}
}

func TestOrderDraftValidate(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := validDraft()
	d.RecipientPhone = "  "
	if err := d.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error for empty recipient phone, got %v", err)
	}

	d = validDraft()
	d.EnableCOD = true
	if err := d.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error for zero COD, got %v", err)
	}

	d = validDraft()
	neg := -1.0
	d.DistanceKm = &neg
	if err := d.Validate(); !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for negative distance, got %v", err)
	}
}

func TestOrderDraftCOD(t *testing.T) {
	d := validDraft()
	d.CODAmount = 150000
	if got := d.COD(); got != 0 {
		t.Fatalf("COD() with COD disabled = %v, want 0", got)
	}

	d.EnableCOD = true
	if got := d.COD(); got != 150000 {
		t.Fatalf("COD() = %v, want 150000", got)
	}
}

func TestOrderTotalAmount(t *testing.T) {
	o := Order{ShippingFee: 19750, CODAmount: 150000}
	if got := o.TotalAmount(); got != 169750 {
		t.Fatalf("TotalAmount() = %v, want 169750", got)
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := map[string]OrderStatus{
		"completed": OrderStatusCompleted,
		" Pickup ":  OrderStatusPickup,
		"":          OrderStatusSearching,
		"unknown":   OrderStatusSearching,
	}
	for in, want := range tests {
		if got := ParseOrderStatus(in); got != want {
			t.Errorf("ParseOrderStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupOrderStatus(t *testing.T) {
	if st, ok := LookupOrderStatus(" Delivery "); !ok || st != OrderStatusDelivery {
		t.Fatalf("LookupOrderStatus(Delivery) = %q, %v", st, ok)
	}
	for _, in := range []string{"", "assigned", "pending"} {
		if _, ok := LookupOrderStatus(in); ok {
			t.Errorf("LookupOrderStatus(%q) reported a known status", in)
		}
	}
}

func TestSummarizeStatuses(t *testing.T) {
	orders := []*Order{
		{Status: OrderStatusCompleted},
		{Status: OrderStatusCompleted},
		{Status: OrderStatusSearching},
	}

	s := SummarizeStatuses(orders)
	if s[OrderStatusCompleted] != 2 || s[OrderStatusSearching] != 1 {
		t.Fatalf("unexpected summary: %v", s)
	}
	if v, ok := s[OrderStatusCancelled]; !ok || v != 0 {
		t.Fatalf("expected zero entry for cancelled, got %v (present=%v)", v, ok)
	}
}
