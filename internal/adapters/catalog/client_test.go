package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"restohub/internal/adapters/catalog"
	"restohub/internal/domain"
)

func TestClient_MenuItems_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenants/warung-1/menu-items" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key")
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode([]domain.MenuItem{{ID: "m1", Name: "Soto Betawi", Price: 40000}})
		}
	}))
	defer ts.Close()

	cl, err := catalog.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.MenuItems(ctx, "warung-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Soto Betawi" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_MenuItems_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := catalog.New(ts.URL, "", 100)
	_, err := cl.MenuItems(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Recommendations_MissingProfileIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := catalog.New(ts.URL, "", 100)
	got, err := cl.Recommendations(context.Background(), "warung-1", "u-9")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil slice, got %#v", got)
	}
}

func TestClient_Recommendations_AnonymousSkipsCall(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	cl, _ := catalog.New(ts.URL, "", 100)
	got, err := cl.Recommendations(context.Background(), "warung-1", "")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no request for anonymous viewer")
	}
}

func TestClient_Forbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	cl, _ := catalog.New(ts.URL, "", 100)
	if _, err := cl.MenuItems(context.Background(), "warung-1"); !errors.Is(err, catalog.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := catalog.New("", "k", 1); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
