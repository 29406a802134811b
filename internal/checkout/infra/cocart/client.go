// Package cocart reads coupons and loyalty points from the commerce API.
package cocart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/app"
	"github.com/AyushChauhan9389/AnimeXschool-app/internal/checkout/domain"
)

// TokenProvider supplies the session token attached to every request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	base  string
	http  *http.Client
	token TokenProvider
}

var (
	_ app.CouponReader = (*Client)(nil)
	_ app.PointsReader = (*Client)(nil)
)

func NewClient(baseURL string, token TokenProvider) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{},
		token: token,
	}
}

func (c *Client) GetCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	var coupon domain.Coupon
	if err := c.get(ctx, "/coupons/"+code, &coupon); err != nil {
		return domain.Coupon{}, err
	}
	return coupon, nil
}

func (c *Client) Points(ctx context.Context) (domain.PointsBalance, error) {
	var payload struct {
		Points domain.PointsBalance `json:"points"`
	}
	if err := c.get(ctx, "/points", &payload); err != nil {
		return domain.PointsBalance{}, err
	}
	return payload.Points, nil
}

func (c *Client) Settings(ctx context.Context) (domain.PointsSettings, error) {
	var payload struct {
		Points domain.PointsSettings `json:"points"`
	}
	if err := c.get(ctx, "/points/settings", &payload); err != nil {
		return domain.PointsSettings{}, err
	}
	return payload.Points, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
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
		var payload struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
			return errors.New(payload.Message)
		}
		return errors.New(http.StatusText(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
