package handlers

import (
	"testing"
)

func validCreateRequest() productCreateRequest {
	return productCreateRequest{
		Name:          "Denim Jacket",
		Description:   "Stonewashed, 12oz",
		Category:      "Jackets",
		Price:         24.5,
		Quantity:      500,
		MOQ:           50,
		Images:        []string{"https://img.example/a.jpg"},
		PaymentOption: "COD",
	}
}

func TestProductCreateRequestValidate(t *testing.T) {
	if err := validCreateRequest().validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*productCreateRequest)
	}{
		{"blank name", func(r *productCreateRequest) { r.Name = "   " }},
		{"zero price", func(r *productCreateRequest) { r.Price = 0 }},
		{"negative quantity", func(r *productCreateRequest) { r.Quantity = -1 }},
		{"zero moq", func(r *productCreateRequest) { r.MOQ = 0 }},
		{"moq above stock", func(r *productCreateRequest) { r.MOQ = 501 }},
		{"no images", func(r *productCreateRequest) { r.Images = nil }},
		{"unknown payment option", func(r *productCreateRequest) { r.PaymentOption = "Installments" }},
	}
	for _, tc := range cases {
		req := validCreateRequest()
		tc.mutate(&req)
		if err := req.validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestBuildProductUpdate(t *testing.T) {
	t.Run("empty request produces empty set", func(t *testing.T) {
		set, err := buildProductUpdate(productUpdateRequest{})
		if err != nil {
			t.Fatal(err)
		}
		if len(set) != 0 {
			t.Errorf("got %v", set)
		}
	})

	t.Run("only supplied fields are set", func(t *testing.T) {
		price := 30.0
		qty := 250
		req := productUpdateRequest{Price: &price, Quantity: &qty}

		set, err := buildProductUpdate(req)
		if err != nil {
			t.Fatal(err)
		}
		if len(set) != 2 {
			t.Fatalf("expected 2 fields, got %v", set)
		}
		if set["price"] != 30.0 || set["quantity"] != 250 {
			t.Errorf("got %v", set)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		badPrice := -1.0
		if _, err := buildProductUpdate(productUpdateRequest{Price: &badPrice}); err == nil {
			t.Error("negative price accepted")
		}

		badMOQ := 0
		if _, err := buildProductUpdate(productUpdateRequest{MOQ: &badMOQ}); err == nil {
			t.Error("zero moq accepted")
		}

		empty := ""
		if _, err := buildProductUpdate(productUpdateRequest{Name: &empty}); err == nil {
			t.Error("blank name accepted")
		}

		noImages := []string{}
		if _, err := buildProductUpdate(productUpdateRequest{Images: &noImages}); err == nil {
			t.Error("empty image list accepted")
		}

		badOption := "Barter"
		if _, err := buildProductUpdate(productUpdateRequest{PaymentOption: &badOption}); err == nil {
			t.Error("unknown payment option accepted")
		}
	})

	t.Run("strings are trimmed", func(t *testing.T) {
		name := "  Cargo Pants  "
		set, err := buildProductUpdate(productUpdateRequest{Name: &name})
		if err != nil {
			t.Fatal(err)
		}
		if set["name"] != "Cargo Pants" {
			t.Errorf("got %q", set["name"])
		}
	})

	t.Run("showOnHome false is still an update", func(t *testing.T) {
		show := false
		set, err := buildProductUpdate(productUpdateRequest{ShowOnHome: &show})
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := set["showOnHome"]; !ok || v != false {
			t.Errorf("got %v", set)
		}
	})
}
