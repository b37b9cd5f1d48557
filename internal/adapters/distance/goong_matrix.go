package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type matrixElement struct {
	Status   string `json:"status"`
	Distance struct {
		Text  string `json:"text"`
		Value int    `json:"value"`
	} `json:"distance"`
	Duration struct {
		Text  string `json:"text"`
		Value int    `json:"value"`
	} `json:"duration"`
}

type matrixResponse struct {
	Rows []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

// fetchMatrixRow retrieves distance and duration from one origin to many destinations
// using the Goong DistanceMatrix endpoint.
func (g *GoongDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	originCoord domain.Coordinates,
	destinations []string,
	destinationCoords []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	if len(destinations) != len(destinationCoords) {
		return nil, errors.New("destinations and destinationCoords are expected to have the same length")
	}

	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	dests := make([]string, 0, len(destinationCoords))
	for _, c := range destinationCoords {
		dests = append(dests, c.LatLng())
	}

	params := url.Values{
		"origins":      {originCoord.LatLng()},
		"destinations": {strings.Join(dests, "|")},
		"vehicle":      {g.vehicle},
	}

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newRequest(ctx, "/DistanceMatrix", params)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Rows) != 1 {
		return nil, fmt.Errorf("expected 1 origin row; got %d", len(mr.Rows))
	}

	elems := mr.Rows[0].Elements
	if len(elems) != len(destinations) {
		return nil, fmt.Errorf(
			"row length does not match destinations: elements=%d destinations=%d",
			len(elems), len(destinations),
		)
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for i, dest := range destinations {
		el := elems[i]
		if el.Status != "OK" {
			// Leave it out; the caller reports the missing destination.
			continue
		}

		out[dest] = ports.DistanceResult{
			DistanceMeters:  el.Distance.Value,
			DurationSeconds: el.Duration.Value,
		}
	}

	return out, nil
}
