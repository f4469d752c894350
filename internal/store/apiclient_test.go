package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/selet/storefront/internal/models"
)

func TestAPIProductsListPublicVersusAdmin(t *testing.T) {
	ctx := context.Background()
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Product{{ID: "p1", Name: "Malbec"}})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL)
	products := NewAPIProducts(client)

	got, err := products.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/api/products" || gotAuth != "" {
		t.Fatalf("anonymous listing hits the public endpoint, got %s auth=%q", gotPath, gotAuth)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("unexpected collection: %v", got)
	}

	client.SetToken("tok")
	if _, err := products.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotPath != "/api/admin/products" || gotAuth != "Bearer tok" {
		t.Fatalf("authenticated listing hits the admin endpoint, got %s auth=%q", gotPath, gotAuth)
	}
}

func TestAPIClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	products := NewAPIProducts(NewAPIClient(srv.URL))
	err := products.Insert(context.Background(), models.Product{ID: "p1"})
	if !errors.Is(err, ErrSourceUnauthorized) {
		t.Fatalf("expected ErrSourceUnauthorized, got %v", err)
	}
}

func TestAPIClientLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "issued",
			"user":  models.AdminUser{ID: "admin-1", Username: "admin"},
		})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL)
	if err := client.Login(context.Background(), "admin", "wrong"); !errors.Is(err, ErrSourceUnauthorized) {
		t.Fatalf("expected ErrSourceUnauthorized, got %v", err)
	}
	if client.Authenticated() {
		t.Fatal("a failed login must not leave a token behind")
	}

	if err := client.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !client.Authenticated() {
		t.Fatal("expected the issued token to be held")
	}
}

func TestAPIOrdersSubmitIsPublic(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	orders := NewAPIOrders(NewAPIClient(srv.URL))
	if err := orders.Insert(context.Background(), models.Order{ID: "BOT-1234"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if gotPath != "/api/orders" || gotMethod != http.MethodPost {
		t.Fatalf("expected POST /api/orders, got %s %s", gotMethod, gotPath)
	}
}

func TestAPIProductsSetFeatured(t *testing.T) {
	var gotFields map[string]any
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotFields)
	}))
	defer srv.Close()

	products := NewAPIProducts(NewAPIClient(srv.URL))
	if err := products.SetFeatured(context.Background(), "p1"); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}
	if gotPath != "/api/admin/products/p1" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if featured, ok := gotFields["isFeatured"].(bool); !ok || !featured {
		t.Fatalf("expected the featured flag in the patch, got %v", gotFields)
	}
}
