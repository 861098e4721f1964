package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableorder-telegram/models"
)

// Client talks to the restaurant ordering API. All calls are single-shot;
// nothing here retries.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-2xx response. Message carries the server-provided
// `message` field when the error body had one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api status %d", e.Code)
}

// OrderRecord is one order line as returned by /orders/my-orders.
type OrderRecord struct {
	ID   int64 `json:"id"`
	Menu struct {
		Name     string `json:"name"`
		ImageURL string `json:"imageUrl"`
	} `json:"menu"`
	Quantity    int                    `json:"quantity"`
	PriceAtTime int64                  `json:"priceAtTime"`
	Status      string                 `json:"status"`
	Options     []models.HistoryOption `json:"options"`
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.getJSON(ctx, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) Menus(ctx context.Context) ([]models.Menu, error) {
	var menus []models.Menu
	if err := c.getJSON(ctx, "/menus", nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

func (c *Client) SessionInfo(ctx context.Context, token string) (*models.TableSession, error) {
	q := url.Values{"token": {token}}
	var sess models.TableSession
	if err := c.getJSON(ctx, "/table-session/session-info", q, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *Client) CreateOrder(ctx context.Context, order models.CreateOrderRequest) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST /orders: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read /orders response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: messageFrom(body)}
	}
	return nil
}

func (c *Client) MyOrders(ctx context.Context, token string) ([]OrderRecord, error) {
	q := url.Values{"token": {token}}
	var resp struct {
		Orders []OrderRecord `json:"orders"`
	}
	if err := c.getJSON(ctx, "/orders/my-orders", q, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: messageFrom(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func messageFrom(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
