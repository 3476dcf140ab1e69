package order

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func validRequest() SubmitRequest {
	return SubmitRequest{
		Items: []SubmitItem{
			{ProductID: uuid.NewString(), Quantity: 2},
		},
		Total:           decimal.NewNullDecimal(decimal.RequireFromString("19.98")),
		ShippingAddress: "Dock 4, Gate 12",
		PaymentMethod:   "card",
	}
}

func TestValidate_Ok(t *testing.T) {
	if errs := Validate(validRequest()); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestValidate_FieldRules(t *testing.T) {
	cases := []struct {
		name      string
		mut       func(r *SubmitRequest)
		wantField string
	}{
		{
			name:      "empty items",
			mut:       func(r *SubmitRequest) { r.Items = nil },
			wantField: "items",
		},
		{
			name: "empty product id",
			mut: func(r *SubmitRequest) {
				r.Items[0].ProductID = ""
			},
			wantField: "items[0].product",
		},
		{
			name: "malformed product id",
			mut: func(r *SubmitRequest) {
				r.Items[0].ProductID = "not-a-uuid"
			},
			wantField: "items[0].product",
		},
		{
			name: "zero quantity",
			mut: func(r *SubmitRequest) {
				r.Items[0].Quantity = 0
			},
			wantField: "items[0].quantity",
		},
		{
			name: "negative total",
			mut: func(r *SubmitRequest) {
				r.Total = decimal.NewNullDecimal(decimal.RequireFromString("-0.01"))
			},
			wantField: "total",
		},
		{
			name: "missing total",
			mut: func(r *SubmitRequest) {
				r.Total = decimal.NullDecimal{}
			},
			wantField: "total",
		},
		{
			name: "empty shipping address",
			mut: func(r *SubmitRequest) {
				r.ShippingAddress = ""
			},
			wantField: "shippingAddress",
		},
		{
			name: "shipping address too long",
			mut: func(r *SubmitRequest) {
				r.ShippingAddress = strings.Repeat("a", 501)
			},
			wantField: "shippingAddress",
		},
		{
			name: "unknown payment method",
			mut: func(r *SubmitRequest) {
				r.PaymentMethod = "crypto"
			},
			wantField: "paymentMethod",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mut(&req)

			errs := Validate(req)
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			for _, fe := range errs {
				if fe.Field == tc.wantField {
					return
				}
			}
			t.Fatalf("expected failure for field %s, got %v", tc.wantField, errs)
		})
	}
}

// Валидатор обязан вернуть все нарушения сразу, а не только первое.
func TestValidate_ReportsAllFailures(t *testing.T) {
	req := SubmitRequest{
		Items: []SubmitItem{
			{ProductID: "", Quantity: 0},
		},
		Total:           decimal.NewNullDecimal(decimal.RequireFromString("-1")),
		ShippingAddress: "",
		PaymentMethod:   "wire",
	}

	errs := Validate(req)

	fields := make(map[string]bool, len(errs))
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	for _, want := range []string{
		"items[0].product",
		"items[0].quantity",
		"total",
		"shippingAddress",
		"paymentMethod",
	} {
		if !fields[want] {
			t.Errorf("expected failure for field %s, got %v", want, errs)
		}
	}
}

func TestValidate_AddressAtLimit(t *testing.T) {
	req := validRequest()
	req.ShippingAddress = strings.Repeat("a", 500)

	if errs := Validate(req); len(errs) != 0 {
		t.Fatalf("500-char address should pass, got %v", errs)
	}
}

// Лимит адреса считается в символах: кириллический адрес короче 500 знаков
// проходит, хотя в байтах он вдвое длиннее.
func TestValidate_AddressLimitCountsRunes(t *testing.T) {
	req := validRequest()
	req.ShippingAddress = strings.Repeat("Ж", 500)

	if errs := Validate(req); len(errs) != 0 {
		t.Fatalf("500-rune address should pass, got %v", errs)
	}

	req.ShippingAddress = strings.Repeat("Ж", 501)
	errs := Validate(req)
	if len(errs) != 1 || errs[0].Field != "shippingAddress" {
		t.Fatalf("501-rune address should fail on shippingAddress, got %v", errs)
	}
}

func TestValidate_MissingTotalMessage(t *testing.T) {
	req := validRequest()
	req.Total = decimal.NullDecimal{}

	errs := Validate(req)
	if len(errs) != 1 {
		t.Fatalf("expected a single validation error, got %v", errs)
	}
	if errs[0].Field != "total" || errs[0].Message != "Total is required" {
		t.Fatalf("unexpected error for missing total: %v", errs[0])
	}
}
