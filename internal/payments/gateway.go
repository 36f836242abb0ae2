// Package payments wraps the external checkout gateway used for PayFirst
// orders. The gateway hosts the actual card flow; this client only creates
// sessions and verifies them after the redirect back.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Gateway struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	client     *http.Client
}

type CreateSessionParams struct {
	TrackingID  string  `json:"trackingId"`
	ProductName string  `json:"productName"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	BuyerEmail  string  `json:"buyerEmail"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Verification is the gateway's answer for a completed session.
type Verification struct {
	TrackingID    string `json:"trackingId"`
	TransactionID string `json:"transactionId"`
	PaymentStatus string `json:"paymentStatus"`
}

func (v Verification) Paid() bool {
	return v.PaymentStatus == "paid"
}

func NewGateway(baseURL, apiKey, successURL, cancelURL string) *Gateway {
	return &Gateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateSession registers a checkout session and returns the hosted payment
// page URL the client should redirect to.
func (g *Gateway) CreateSession(ctx context.Context, params CreateSessionParams) (Session, error) {
	payload := map[string]interface{}{
		"trackingId":  params.TrackingID,
		"productName": params.ProductName,
		"amount":      params.Amount,
		"currency":    params.Currency,
		"buyerEmail":  params.BuyerEmail,
		"successUrl":  g.successURL,
		"cancelUrl":   g.cancelURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, fmt.Errorf("checkout gateway returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, fmt.Errorf("decoding session response: %w", err)
	}
	if session.URL == "" {
		return Session{}, fmt.Errorf("checkout gateway returned no session url")
	}
	return session, nil
}

// VerifySession asks the gateway whether a session has been paid.
func (g *Gateway) VerifySession(ctx context.Context, sessionID string) (Verification, error) {
	endpoint := g.baseURL + "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Verification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Verification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Verification{}, fmt.Errorf("checkout session not found")
	}
	if resp.StatusCode != http.StatusOK {
		return Verification{}, fmt.Errorf("checkout gateway returned status %d", resp.StatusCode)
	}

	var verification Verification
	if err := json.NewDecoder(resp.Body).Decode(&verification); err != nil {
		return Verification{}, fmt.Errorf("decoding verification response: %w", err)
	}
	return verification, nil
}
