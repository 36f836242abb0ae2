package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-123" {
			t.Errorf("authorization header: %q", got)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		if payload["trackingId"] != "TRK-AAAA000000" {
			t.Errorf("trackingId: %v", payload["trackingId"])
		}
		if payload["successUrl"] != "https://shop.example/success" {
			t.Errorf("successUrl: %v", payload["successUrl"])
		}

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_1",
			"url": "https://pay.example/cs_1",
		})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key-123", "https://shop.example/success", "https://shop.example/cancel")

	session, err := gateway.CreateSession(context.Background(), CreateSessionParams{
		TrackingID:  "TRK-AAAA000000",
		ProductName: "Denim Jacket",
		Amount:      1225,
		Currency:    "usd",
		BuyerEmail:  "buyer@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if session.URL != "https://pay.example/cs_1" {
		t.Errorf("got %q", session.URL)
	}
}

func TestCreateSessionGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key", "", "")
	if _, err := gateway.CreateSession(context.Background(), CreateSessionParams{}); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestCreateSessionMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "cs_1"})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key", "", "")
	if _, err := gateway.CreateSession(context.Background(), CreateSessionParams{}); err == nil {
		t.Fatal("expected error when response has no url")
	}
}

func TestVerifySession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"trackingId":    "TRK-BBBB111111",
			"transactionId": "txn_9",
			"paymentStatus": "paid",
		})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key", "", "")

	verification, err := gateway.VerifySession(context.Background(), "cs_42")
	if err != nil {
		t.Fatal(err)
	}
	if !verification.Paid() {
		t.Error("expected paid")
	}
	if verification.TrackingID != "TRK-BBBB111111" || verification.TransactionID != "txn_9" {
		t.Errorf("got %+v", verification)
	}
}

func TestVerifySessionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key", "", "")
	if _, err := gateway.VerifySession(context.Background(), "missing"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestVerificationPaid(t *testing.T) {
	if (Verification{PaymentStatus: "unpaid"}).Paid() {
		t.Error("unpaid must not report paid")
	}
	if !(Verification{PaymentStatus: "paid"}).Paid() {
		t.Error("paid should report paid")
	}
}
