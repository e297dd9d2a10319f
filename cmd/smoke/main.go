// Command smoke exercises a running storefront-api end to end: register,
// create an order, pay it, and verify the payment stuck.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("STOREFRONT_API_URL")
	if base == "" {
		base = "http://localhost:5000"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	email := fmt.Sprintf("smoke-%d@example.com", rand.Int63())

	var account struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	mustPost(client, base+"/users/register", "", map[string]any{
		"name":     "Smoke Tester",
		"email":    email,
		"password": "smoke-pass",
	}, http.StatusCreated, &account)
	if account.Token == "" {
		log.Fatal("register returned no token")
	}

	var order struct {
		ID         string  `json:"id"`
		IsPaid     bool    `json:"isPaid"`
		TotalPrice float64 `json:"totalPrice"`
	}
	mustPost(client, base+"/orders", account.Token, map[string]any{
		"orderItems": []map[string]any{},
		"itemsPrice": 42.50,
		"totalPrice": 42.50,
	}, http.StatusCreated, &order)
	if order.IsPaid {
		log.Fatal("new order reported as paid")
	}

	var paid struct {
		IsPaid  bool       `json:"isPaid"`
		PaidAt  *time.Time `json:"paidAt"`
		Payment struct {
			Method string `json:"paymentMethod"`
		} `json:"payment"`
	}
	mustPut(client, base+"/orders/"+order.ID+"/pay", account.Token, map[string]any{
		"payerID":   "smoke-payer",
		"orderID":   "smoke-order",
		"paymentID": fmt.Sprintf("smoke-%d", rand.Int63()),
	}, http.StatusOK, &paid)
	if !paid.IsPaid || paid.PaidAt == nil {
		log.Fatal("payment transition did not stick")
	}
	if paid.Payment.Method != "paypal" {
		log.Fatalf("unexpected payment method: %q", paid.Payment.Method)
	}

	fmt.Printf("storefront smoke test passed: user=%s order=%s\n", account.ID, order.ID)
}

func mustPost(client *http.Client, url, token string, body any, wantStatus int, out any) {
	do(client, http.MethodPost, url, token, body, wantStatus, out)
}

func mustPut(client *http.Client, url, token string, body any, wantStatus int, out any) {
	do(client, http.MethodPut, url, token, body, wantStatus, out)
}

func do(client *http.Client, method, url, token string, body any, wantStatus int, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: status %d, want %d", method, url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode response: %v", err)
		}
	}
}
