package distance

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultGoongBaseURL = "https://rsapi.goong.io"

// GoongDistanceProvider implements DistanceProvider and Geocoder using the Goong Maps API.
//
// It coordinates:
//   - Address normalization
//   - Geocode caching
//   - Distance caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type GoongDistanceProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	vehicle       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

// Either cache may be nil.
func NewGoongDistanceProvider(
	apiKey string,
	baseURL string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*GoongDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("goong api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultGoongBaseURL
	}

	provider := &GoongDistanceProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		vehicle:       "bike",
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to batched path to reuse caching and matrix logic.
func (g *GoongDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := normalize(origin)
	if normOrigin == "" {
		return ports.DistanceResult{}, errors.New("get goong distance: origin must be non-empty")
	}

	normDestination := normalize(destination)
	if normDestination == "" {
		return ports.DistanceResult{}, errors.New("get goong distance: destination must be non-empty")
	}

	// Same address after normalization: nothing to route.
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := g.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	return result, nil
}

// Geocode resolves one address, consulting the geocode cache first.
func (g *GoongDistanceProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	coords, err := g.resolveCoordinates(ctx, []string{norm})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	c, ok := coords[norm]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no coordinates", norm)
	}
	return c, nil
}

// Compute distances from a single origin to many destinations.
func (g *GoongDistanceProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "goong.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}

		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationHits := make(map[string]ports.DistanceResult)
	// Check the distance cache before issuing external API calls.
	if g.distanceCache != nil {
		hits, err := g.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			// Cache read failures fall through to the API.
			log.Printf("req_id=%s distance cache read failed: %v", obs.RequestID(ctx), err)
		} else {
			destinationHits = hits
		}
	}

	destinationMisses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := destinationHits[d]; !ok {
			destinationMisses = append(destinationMisses, d)
		}
	}

	if len(destinationMisses) == 0 {
		return destinationHits, nil
	}

	needed := make([]string, 0, 1+len(destinationMisses))
	needed = append(needed, normOrigin)
	needed = append(needed, destinationMisses...)

	coords, err := g.resolveCoordinates(ctx, needed)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	originCoord, ok := coords[normOrigin]
	if !ok {
		return nil, fmt.Errorf("missing coordinate for origin %q", normOrigin)
	}

	destinationCoords := make([]domain.Coordinates, 0, len(destinationMisses))
	for _, d := range destinationMisses {
		coord, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for destination %q", d)
		}
		destinationCoords = append(destinationCoords, coord)
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := g.fetchMatrixRow(ctx, originCoord, destinationMisses, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	missing := make([]string, 0)
	for _, d := range destinationMisses {
		if _, ok := fetched[d]; !ok {
			missing = append(missing, d)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"goong matrix did not return the following destinations: %s",
			strings.Join(missing, ", "),
		)
	}

	if g.distanceCache != nil {
		if err := g.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Printf("req_id=%s distance cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	out := make(map[string]ports.DistanceResult, len(destinationHits)+len(fetched))
	for k, v := range destinationHits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}

// resolveCoordinates returns coordinates for every normalized address, hitting
// the geocode cache first and the API for the rest.
func (g *GoongDistanceProvider) resolveCoordinates(
	ctx context.Context,
	addresses []string,
) (map[string]domain.Coordinates, error) {
	geocodeHits := make(map[string]domain.Coordinates)
	if g.geocodeCache != nil {
		hits, err := g.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			log.Printf("req_id=%s geocode cache read failed: %v", obs.RequestID(ctx), err)
		} else {
			geocodeHits = hits
		}
	}

	geocodeMisses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := geocodeHits[a]; !ok {
			geocodeMisses = append(geocodeMisses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(geocodeMisses) > 0 {
		var err error
		fresh, err = g.geocodeMany(ctx, geocodeMisses)
		if err != nil {
			return nil, err
		}
	}

	if g.geocodeCache != nil && len(fresh) > 0 {
		if err := g.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	coords := make(map[string]domain.Coordinates, len(geocodeHits)+len(fresh))
	for k, v := range geocodeHits {
		coords[k] = v
	}
	for k, v := range fresh {
		coords[k] = v
	}
	return coords, nil
}
