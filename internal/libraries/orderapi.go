package libraries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lexedit-backend/internal/models"
)

// OrderAPI calls the order web methods (GetOrderData, SaveData, AddObject).
type OrderAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewOrderAPI(baseURL string, timeout time.Duration) *OrderAPI {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &OrderAPI{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetOrderData returns the raw template data of an order.
func (a *OrderAPI) GetOrderData(ctx context.Context, orderNumber, userID int64, sessionID string) (string, error) {
	q := url.Values{}
	q.Set("orderNumber", strconv.FormatInt(orderNumber, 10))
	q.Set("userId", strconv.FormatInt(userID, 10))
	q.Set("sessionId", sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"GetOrderData?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := a.do(req)
	if err != nil {
		return "", fmt.Errorf("GetOrderData: %w", err)
	}
	return unwrapString(body), nil
}

// SaveData stores the JSON of one face.
func (a *OrderAPI) SaveData(ctx context.Context, p models.FacePayload) (string, error) {
	body, err := a.postForm(ctx, "SaveData", p)
	if err != nil {
		return "", fmt.Errorf("SaveData: %w", err)
	}
	return unwrapString(body), nil
}

// AddObject creates one object and returns the id the backend assigned.
func (a *OrderAPI) AddObject(ctx context.Context, p models.FacePayload) (int64, error) {
	body, err := a.postForm(ctx, "AddObject", p)
	if err != nil {
		return 0, fmt.Errorf("AddObject: %w", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(unwrapString(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("AddObject: unexpected id %q", body)
	}
	return id, nil
}

func (a *OrderAPI) postForm(ctx context.Context, method string, p models.FacePayload) ([]byte, error) {
	form := url.Values{}
	form.Set("jsonData", p.JSONData)
	form.Set("orderNumber", strconv.FormatInt(p.OrderNumber, 10))
	form.Set("sessionID", p.SessionID)
	form.Set("pageNumber", strconv.Itoa(int(p.PageNumber)))
	form.Set("productID", strconv.FormatInt(p.ProductID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+method, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *OrderAPI) do(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// unwrapString decodes bodies the backend sends as a JSON string literal.
func unwrapString(body []byte) string {
	b := bytes.TrimSpace(body)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return s
		}
	}
	return string(b)
}
