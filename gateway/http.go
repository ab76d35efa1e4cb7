package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flamesblue/models"
	"flamesblue/utils"

	"go.uber.org/zap"
)

// HTTPGateway talks JSON over HTTP to the Flames.Blue backend.
type HTTPGateway struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPGateway builds a gateway against the given base URL.
func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
	}
}

func (g *HTTPGateway) SendCode(ctx context.Context, phone string) error {
	payload := map[string]string{"phone": phone}
	return g.post(ctx, "/auth/send-otp", payload, nil)
}

func (g *HTTPGateway) VerifyCode(ctx context.Context, phone, code string) error {
	payload := map[string]string{"phone": phone, "code": code}
	return g.post(ctx, "/auth/verify-otp", payload, nil)
}

func (g *HTTPGateway) CreateListing(ctx context.Context, in CreateListingInput) (string, error) {
	var out struct {
		ID string `json:"_id"`
	}
	if err := g.post(ctx, "/vehicles", in, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *HTTPGateway) ListVehicles(ctx context.Context) ([]models.VehicleListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/vehicles", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vehicles request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var vehicles []models.VehicleListing
	if err := json.NewDecoder(resp.Body).Decode(&vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}

func (g *HTTPGateway) SendChatMessage(ctx context.Context, userID, message string) (string, error) {
	payload := map[string]string{"user_id": userID, "message": message}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := g.post(ctx, "/support/chat", payload, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// post sends a JSON POST and optionally decodes a JSON response into out.
func (g *HTTPGateway) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		utils.GetLogger().Debug("backend returned non-success status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("request to %s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}
