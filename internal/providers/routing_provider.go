package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"raildash/internal/models/dtos"
	"raildash/internal/services"
)

// RoutingProvider is the HTTP client for the external routing engine. One
// logical call per invocation; retries are a caller/ops concern, not ours.
type RoutingProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewRoutingProvider builds a provider with the engine base URL and overall
// request timeout. The connect phase gets its own shorter 5s budget so a dead
// engine host fails fast instead of eating the full timeout.
func NewRoutingProvider(baseURL string, timeout time.Duration) *RoutingProvider {
	return &RoutingProvider{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

// Route issues one GET to the routing engine and returns the first usable
// path. Failure kinds are distinct: transport/status problems surface as
// UpstreamError, a successful response without a usable path as NoPathError.
func (p *RoutingProvider) Route(ctx context.Context, waypoints []dtos.Waypoint, profile string, options map[string]any) (*dtos.RoutingPath, error) {
	params := url.Values{}
	params.Set("profile", profile)
	params.Set("points_encoded", "false")
	params.Set("type", "json")
	params.Set("locale", "en")
	for _, wp := range waypoints {
		params.Add("point", fmt.Sprintf("%v,%v", wp.Lat, wp.Lon))
	}
	for key, value := range options {
		params.Add(key, optionValue(value))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/route?"+params.Encode(), nil)
	if err != nil {
		return nil, &services.UpstreamError{Message: err.Error(), Err: err}
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &services.UpstreamError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &services.UpstreamError{
			Message: fmt.Sprintf("routing engine returned status %d", resp.StatusCode),
		}
	}

	var result dtos.RoutingEngineResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &services.UpstreamError{Message: "invalid routing engine response: " + err.Error(), Err: err}
	}

	if len(result.Paths) == 0 {
		return nil, &services.NoPathError{Message: "routing service returned no paths"}
	}
	path := result.Paths[0]
	if path.Points == nil || path.Points.Coordinates == nil {
		return nil, &services.NoPathError{Message: "routing service did not include coordinates"}
	}
	return &path, nil
}

// optionValue flattens an opaque option value into its query-string form.
func optionValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
