// Package cocart talks to the remote commerce API's customer cart
// endpoints over REST.
package cocart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/cart/domain"
)

// TokenProvider supplies the session token attached to every request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	base  string
	http  *http.Client
	token TokenProvider
	log   *slog.Logger
}

var _ app.RemoteCartService = (*Client)(nil)

func NewClient(baseURL string, token TokenProvider, log *slog.Logger) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{},
		token: token,
		log:   log,
	}
}

func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/customers/cart", nil, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// addItemEntry is one element of the batched add-items response: either a
// cart or an error, keyed by status.
type addItemEntry struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"message,omitempty"`
}

// AddItems posts the batch and decodes the per-item result entries.
// Resolving which entry wins is the caller's business (see app.MergedCart);
// the client only reports what the server said, logging failed entries so
// partial failures are at least visible.
func (c *Client) AddItems(ctx context.Context, items []app.AddItem) ([]app.AddItemResult, error) {
	var entries []addItemEntry
	if err := c.do(ctx, http.MethodPost, "/customers/cart/add-item", items, &entries); err != nil {
		return nil, err
	}

	results := make([]app.AddItemResult, 0, len(entries))
	for _, e := range entries {
		if e.Status == "success" {
			var cart domain.Cart
			if err := json.Unmarshal(e.Data, &cart); err != nil {
				return nil, fmt.Errorf("failed to decode add-item entry: %w", err)
			}
			results = append(results, app.AddItemResult{Success: true, Cart: &cart})
			continue
		}

		res := app.AddItemResult{}
		if e.Message != nil {
			res.Err = &app.ServiceError{Code: e.Message.Code, Message: e.Message.Message}
			c.log.Warn("add-item entry failed",
				slog.String("code", e.Message.Code),
				slog.String("message", e.Message.Message))
		} else {
			res.Err = &app.ServiceError{Message: "item was not added"}
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Client) UpdateItemQuantity(ctx context.Context, itemKey string, quantity string) (domain.Cart, error) {
	body := map[string]string{"quantity": quantity}

	var cart domain.Cart
	if err := c.do(ctx, http.MethodPost, "/customers/cart/item/"+itemKey, body, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (c *Client) RemoveItem(ctx context.Context, itemKey string) error {
	return c.do(ctx, http.MethodDelete, "/customers/cart/remove/"+itemKey, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodPost, "/customers/cart/clear", nil, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token.Token(ctx)
	if err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError prefers the service's own message so the user sees what the
// backend said, falling back to the bare status.
func decodeError(resp *http.Response) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return &app.ServiceError{Code: payload.Code, Message: payload.Message}
	}
	return errors.New(http.StatusText(resp.StatusCode))
}
