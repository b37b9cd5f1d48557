package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// geocodeMany resolves addresses individually using Goong (/geocode).
// Calls are deduplicated and may be retried via doWithRetry.
func (g *GoongDistanceProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "goong.geocodeMany")(&err)

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		norm := normalize(a)
		if _, ok := out[norm]; ok {
			continue
		}

		c, err := g.geocodeOne(ctx, norm)
		if err != nil {
			return nil, err
		}
		out[norm] = c
	}

	return out, nil
}

func (g *GoongDistanceProvider) geocodeOne(ctx context.Context, address string) (domain.Coordinates, error) {
	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, "/geocode", url.Values{"address": {address}})
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	loc := decoded.Results[0].Geometry.Location
	return domain.Coordinates{Lon: loc.Lng, Lat: loc.Lat}, nil
}
