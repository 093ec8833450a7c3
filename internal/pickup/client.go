package pickup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PointFetcher fetches the carrier's pickup points for a country. May return
// an empty list; that is not an error.
type PointFetcher interface {
	Fetch(ctx context.Context, country string) ([]domain.PickupPoint, error)
}

// HTTPFetcher calls the carrier pickup-point API. Concurrent fetches for the
// same country are collapsed into one request via singleflight.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	sfg     singleflight.Group
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, country string) ([]domain.PickupPoint, error) {
	v, err, _ := f.sfg.Do(country, func() (interface{}, error) {
		url := fmt.Sprintf("%s/api/pickup-points?country=%s", f.baseURL, country)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build pickup request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("pickup fetch failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("pickup fetch returned status %d", resp.StatusCode)
		}

		var points []domain.PickupPoint
		if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
			return nil, fmt.Errorf("decode pickup response: %w", err)
		}
		return points, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.PickupPoint), nil
}
