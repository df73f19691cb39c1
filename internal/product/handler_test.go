package product

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeApp(seed []Product) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(NewInMemoryRepository(seed))).RegisterRoutes(app)
	return app
}

func TestCreateProduct_RoundTrip(t *testing.T) {
	app := makeApp(nil)

	payload := map[string]any{
		"name":        "Whole Milk 1L",
		"price":       1.85,
		"description": "Fresh whole milk",
		"category":    "Dairy",
		"qty":         40,
		"expiryDate":  "2026-09-20",
		"imgUrl":      "/img/milk.png",
	}
	b, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/api/products/create", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var created struct {
		Product Product `json:"product"`
	}
	body, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if created.Product.ID == 0 {
		t.Fatal("expected an assigned product id")
	}
	if created.Product.DateOfPurchase == "" {
		t.Fatal("expected dateOfPurchase to default to creation time")
	}

	// fetch it back and compare the caller-supplied fields
	req2 := httptest.NewRequest("GET", "/api/products/1", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	var fetched Product
	body2, _ := io.ReadAll(res2.Body)
	if err := json.Unmarshal(body2, &fetched); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if fetched.Name != "Whole Milk 1L" || fetched.Price != 1.85 || fetched.Category != "Dairy" ||
		fetched.Qty != 40 || fetched.ExpiryDate != "2026-09-20" {
		t.Fatalf("round-trip mismatch: %+v", fetched)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	app := makeApp(nil)

	// missing name/description/category/expiry, negative price and qty
	payload := `{"price":-1,"qty":-2}`
	req := httptest.NewRequest("POST", "/api/products/create", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	for _, field := range []string{"name", "price", "description", "category", "qty", "expiryDate"} {
		if !strings.Contains(string(b), field) {
			t.Fatalf("expected validation error for %s, got %s", field, string(b))
		}
	}

	// unparseable expiry date
	payload2 := `{"name":"x","price":1,"description":"d","category":"c","qty":1,"expiryDate":"not-a-date"}`
	req2 := httptest.NewRequest("POST", "/api/products/create", strings.NewReader(payload2))
	req2.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad expiry, got %d", res2.StatusCode)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	app := makeApp(nil)

	req := httptest.NewRequest("GET", "/api/products/99", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCountRoutes_NotSwallowedByIDParam(t *testing.T) {
	app := makeApp([]Product{
		{ID: 1, Name: "A", Price: 1, Category: "Dairy", Qty: 1, ExpiryDate: "2026-01-01"},
		{ID: 2, Name: "B", Price: 2, Category: "Dairy", Qty: 1, ExpiryDate: "2026-01-01"},
		{ID: 3, Name: "C", Price: 3, Category: "Bakery", Qty: 1, ExpiryDate: "2026-01-01"},
	})

	req := httptest.NewRequest("GET", "/api/products/count", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for count route, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"allProductCount":3`) {
		t.Fatalf("unexpected count body: %s", string(b))
	}

	req2 := httptest.NewRequest("GET", "/api/products/count-by-category", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for count-by-category, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"Dairy"`) || !strings.Contains(string(b2), `"count":2`) {
		t.Fatalf("unexpected aggregate body: %s", string(b2))
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	app := makeApp([]Product{
		{ID: 1, Name: "A", Price: 1, Description: "d", Category: "Dairy", Qty: 1, ExpiryDate: "2026-01-01"},
	})

	payload := `{"name":"A2","price":2,"description":"d","category":"Dairy","qty":5,"expiryDate":"2026-02-01"}`
	req := httptest.NewRequest("PUT", "/api/products/update/1", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"name":"A2"`) {
		t.Fatalf("expected updated name, got %s", string(b))
	}

	req2 := httptest.NewRequest("DELETE", "/api/products/delete/1", nil)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("DELETE", "/api/products/delete/1", nil)
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for second delete, got %d", res3.StatusCode)
	}
}
