package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Client talks to the remote store backend. Every business computation
// (pricing, coupons, orders, AI answers) happens on the other side of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(backendURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(backendURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if err := statusError(method, path, resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %v: %w", method, path, err, ErrBadResponse)
		}
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusBadRequest:
		var ve struct {
			Error       string `json:"error"`
			Message     string `json:"message"`
			Detail      string `json:"detail"`
			CouponError string `json:"coupon_error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&ve)
		msg := ve.Error
		if msg == "" {
			msg = ve.Message
		}
		if msg == "" {
			msg = ve.Detail
		}
		return &ValidationError{Message: msg, CouponError: ve.CouponError}
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, ErrUnavailable)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, ErrBadResponse)
	}
	return nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id int) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "", nil, &out)
	return out, err
}

func (c *Client) Reviews(ctx context.Context, productID int) ([]models.Review, error) {
	var out []models.Review
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/reviews/", productID), "", nil, &out)
	return out, err
}

func (c *Client) SubmitReview(ctx context.Context, token string, productID int, review models.Review) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/reviews/", productID), token, review, nil)
}

func (c *Client) AskProduct(ctx context.Context, token string, productID int, question string) (string, error) {
	body := map[string]string{"question": question}
	var out struct {
		Answer string `json:"answer"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/ask/", productID), token, body, &out)
	return out.Answer, err
}

func (c *Client) ValidateCoupon(ctx context.Context, token, code string, amount decimal.Decimal) (CouponQuote, error) {
	body := map[string]any{
		"code":   code,
		"amount": amount.Round(2).InexactFloat64(),
	}
	var out CouponQuote
	err := c.do(ctx, http.MethodPost, "/api/coupons/validate/", token, body, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, token string, draft OrderDraft) error {
	return c.do(ctx, http.MethodPost, "/api/orders/create/", token, draft, nil)
}

func (c *Client) Checkout(ctx context.Context, token string, req CheckoutRequest) error {
	return c.do(ctx, http.MethodPost, "/api/checkout/", token, req, nil)
}

func (c *Client) SendChat(ctx context.Context, token, email, prompt string) (string, error) {
	body := map[string]string{"email": email, "prompt": prompt}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat/", token, body, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *Client) ChatHistory(ctx context.Context, token string) ([]models.ChatMessage, error) {
	var out struct {
		Messages []chatHistoryMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/chat", token, nil, &out); err != nil {
		return nil, err
	}

	msgs := make([]models.ChatMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		role := models.RoleAssistant
		if m.Role == "user" {
			role = models.RoleUser
		}
		msgs = append(msgs, models.ChatMessage{
			Role:      role,
			Text:      m.Text,
			Timestamp: m.Timestamp,
			Products:  m.Products,
		})
	}
	return msgs, nil
}

func (c *Client) ClearChat(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat", token, nil, nil)
}

func (c *Client) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	var out TokenPair
	err := c.do(ctx, http.MethodPost, "/api/login/", "", creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "/api/register/", "", creds, nil)
}

func (c *Client) Profile(ctx context.Context, token string) (models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, http.MethodGet, "/api/profile/", token, nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, profile models.Profile) error {
	return c.do(ctx, http.MethodPatch, "/api/profile/update/", token, profile, nil)
}

// UploadPhoto sends the avatar image as multipart form-data under the
// "photo" field and returns the stored photo URL.
func (c *Client) UploadPhoto(ctx context.Context, token, filename string, photo io.Reader) (string, error) {
	const path = "/api/profile/photo/"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, photo); err != nil {
		return "", fmt.Errorf("copy photo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %v: %w", http.MethodPost, path, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if err := statusError(http.MethodPost, path, resp); err != nil {
		return "", err
	}

	var out struct {
		Photo string `json:"photo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s %s: decode response: %v: %w", http.MethodPost, path, err, ErrBadResponse)
	}
	return out.Photo, nil
}

func (c *Client) DeletePhoto(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/profile/photo/", token, nil, nil)
}

func (c *Client) UserCoupon(ctx context.Context, token string) (models.Coupon, error) {
	var out models.Coupon
	err := c.do(ctx, http.MethodGet, "/api/coupon/user", token, nil, &out)
	return out, err
}
