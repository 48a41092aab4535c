package product

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/korzewarrior/smartkart/pkg/config"
	pkgerrors "github.com/korzewarrior/smartkart/pkg/errors"
)

func newOFFTestClient(t *testing.T, handler http.HandlerFunc) *OpenFoodFactsClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenFoodFactsClient(config.LookupConfig{APIBaseURL: server.URL, Timeout: 2 * time.Second})
}

func TestFetchFound(t *testing.T) {
	client := newOFFTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/product/0123456789012.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Rolled Oats",
				"brands": "Acme",
				"ingredients_text": "whole grain oats, wheat starch",
				"allergens_tags": ["en:gluten", "fr:avoine"],
				"nutrition_grades": "a"
			}
		}`))
	})

	payload, err := client.Fetch(context.Background(), "0123456789012")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if payload.Name != "Rolled Oats" || payload.Brand != "Acme" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(payload.AllergenTags) != 2 || payload.AllergenTags[0] != "gluten" || payload.AllergenTags[1] != "avoine" {
		t.Fatalf("expected language prefixes stripped, got %v", payload.AllergenTags)
	}
}

func TestFetchNotFoundStatus(t *testing.T) {
	client := newOFFTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0}`))
	})

	_, err := client.Fetch(context.Background(), "999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	client := newOFFTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), "999")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestFetchBlankFieldsGetDefaults(t *testing.T) {
	client := newOFFTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 1, "product": {}}`))
	})

	payload, err := client.Fetch(context.Background(), "42")
	if err != nil {
		t.Fatalf("Fetch() returned unexpected error: %v", err)
	}
	if payload.Name != "Unknown product" || payload.Brand != "Unknown brand" {
		t.Fatalf("expected placeholder fields, got %+v", payload)
	}
}
