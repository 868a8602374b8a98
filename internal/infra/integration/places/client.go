package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	DefaultBaseURL = "https://places.googleapis.com/v1"
	maxResults     = 20
)

var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.nationalPhoneNumber",
	"places.internationalPhoneNumber",
	"places.websiteUri",
	"places.rating",
	"places.userRatingCount",
	"places.primaryTypeDisplayName",
	"places.location",
	"places.googleMapsUri",
}, ",")

var ErrNotConfigured = errors.New("clave de Google Places no configurada")

type SettingsSource interface {
	Get(ctx context.Context) config.Settings
}

// Client busca negocios con Places API (Text Search). La clave se lee de los ajustes
// en cada búsqueda.
type Client struct {
	baseURL  string
	settings SettingsSource
	http     *http.Client
}

func NewClient(settings SettingsSource, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		settings: settings,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Search combina query y ubicación en una sola consulta de texto. El radio sólo se
// usa para acotar la frase ("a 5 km de ..."), Text Search no lo admite sin coordenadas.
func (c *Client) Search(ctx context.Context, query, location string, radius int) ([]entity.Place, error) {
	apiKey := c.settings.Get(ctx).PlacesAPIKey
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload := searchTextRequest{
		TextQuery:      buildTextQuery(query, location, radius),
		LanguageCode:   "es",
		MaxResultCount: maxResults,
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error al generar json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error en la conexión con places: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("places rechazó la búsqueda (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("places rechazó la búsqueda (status %d)", resp.StatusCode)
	}

	var response searchTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error al leer respuesta de places: %w", err)
	}

	out := make([]entity.Place, 0, len(response.Places))
	for _, p := range response.Places {
		out = append(out, toPlace(p))
	}
	return out, nil
}

func buildTextQuery(query, location string, radius int) string {
	q := strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if location == "" {
		return q
	}
	if radius > 0 {
		return fmt.Sprintf("%s a %d km de %s", q, (radius+999)/1000, location)
	}
	return q + " en " + location
}

func toPlace(p place) entity.Place {
	phone := p.InternationalPhoneNumber
	if phone == "" {
		phone = p.NationalPhoneNumber
	}
	return entity.Place{
		PlaceID:      p.ID,
		Name:         p.DisplayName.Text,
		Address:      p.FormattedAddress,
		Phone:        phone,
		Website:      p.WebsiteURI,
		Rating:       p.Rating,
		ReviewsCount: p.UserRatingCount,
		Category:     p.PrimaryTypeDisplayName.Text,
		Latitude:     p.Location.Latitude,
		Longitude:    p.Location.Longitude,
		MapsURL:      p.GoogleMapsURI,
	}
}
