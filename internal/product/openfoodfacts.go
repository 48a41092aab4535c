package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/korzewarrior/smartkart/pkg/config"
	pkgerrors "github.com/korzewarrior/smartkart/pkg/errors"
)

// Payload is the normalized product description returned by the remote
// database before allergen detection runs.
type Payload struct {
	Name            string
	Brand           string
	IngredientsText string
	AllergenTags    []string
	ImageURL        string
	NutritionGrade  string
}

// Fetcher resolves a barcode against the remote product database.
type Fetcher interface {
	Fetch(ctx context.Context, barcode string) (Payload, error)
}

// ErrNotFound reports a barcode the remote database does not know.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")

// OpenFoodFactsClient fetches products from the Open Food Facts v0 API.
type OpenFoodFactsClient struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsClient(cfg config.LookupConfig) *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type offResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string   `json:"product_name"`
		Brands          string   `json:"brands"`
		IngredientsText string   `json:"ingredients_text"`
		AllergensTags   []string `json:"allergens_tags"`
		ImageURL        string   `json:"image_url"`
		NutritionGrades string   `json:"nutrition_grades"`
	} `json:"product"`
}

// Fetch performs one API round trip. ErrNotFound distinguishes a definitive
// miss from transport failures; callers normalize both to a sentinel record.
func (c *OpenFoodFactsClient) Fetch(ctx context.Context, barcode string) (Payload, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Payload{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building product request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Payload{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product api unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Payload{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Payload{}, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("product api returned %d", resp.StatusCode))
	}

	var body offResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Payload{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding product response")
	}
	if body.Status != 1 {
		return Payload{}, ErrNotFound
	}

	return Payload{
		Name:            fallback(body.Product.ProductName, "Unknown product"),
		Brand:           fallback(body.Product.Brands, "Unknown brand"),
		IngredientsText: body.Product.IngredientsText,
		AllergenTags:    stripTagPrefixes(body.Product.AllergensTags),
		ImageURL:        body.Product.ImageURL,
		NutritionGrade:  body.Product.NutritionGrades,
	}, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// stripTagPrefixes drops the language prefix from tags like "en:milk".
func stripTagPrefixes(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if idx := strings.Index(tag, ":"); idx >= 0 {
			tag = tag[idx+1:]
		}
		out = append(out, tag)
	}
	return out
}
