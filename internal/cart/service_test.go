package cart

import (
	"errors"
	"testing"

	"github.com/freshmart/grocery-backend/internal/draft"
	"github.com/freshmart/grocery-backend/internal/product"
)

func newTestService(products []product.Product) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository(nil)
	productService := product.NewService(product.NewInMemoryRepository(products))
	return NewService(repo, productService), repo
}

func TestCheckout_ComputesValueFromStorePrices(t *testing.T) {
	svc, repo := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 10.0, Qty: 5},
		{ID: 2, Name: "B", Price: 5.0, Qty: 5},
	})

	created, err := svc.Checkout(42, []ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if created.Value != 25.0 {
		t.Fatalf("expected value 25.0, got %v", created.Value)
	}
	if created.Status != StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", created.Status)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned cart id")
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(created.Items))
	}

	stored, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("persisted cart not found: %v", err)
	}
	if stored.Value != 25.0 {
		t.Fatalf("stored value mismatch: %v", stored.Value)
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	svc, repo := newTestService(nil)

	_, err := svc.Checkout(1, nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if n, _ := repo.CountByStatus(StatusConfirmed); n != 0 {
		t.Fatalf("expected no carts persisted, got %d", n)
	}
}

func TestCheckout_OverQuantityRejectedWithoutWrite(t *testing.T) {
	svc, repo := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 10.0, Qty: 5},
	})

	_, err := svc.Checkout(1, []ItemRequest{{ProductID: 1, Quantity: 6}})
	var oq *draft.OverQuantityError
	if !errors.As(err, &oq) {
		t.Fatalf("expected OverQuantityError, got %v", err)
	}
	if oq.Available != 5 {
		t.Fatalf("expected available 5, got %d", oq.Available)
	}
	if n, _ := repo.CountByStatus(StatusConfirmed); n != 0 {
		t.Fatalf("expected no carts persisted, got %d", n)
	}
}

func TestCheckout_MissingProductRejectedWithoutWrite(t *testing.T) {
	svc, repo := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 10.0, Qty: 5},
	})

	_, err := svc.Checkout(1, []ItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if n, _ := repo.CountByStatus(StatusConfirmed); n != 0 {
		t.Fatalf("expected all-or-nothing persistence, got %d carts", n)
	}
}

func TestSaveDraftAndCounts(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 2.0, Qty: 10},
	})

	d, err := svc.SaveDraft(3, []ItemRequest{{ProductID: 1, Quantity: 2}})
	if err != nil {
		t.Fatalf("save draft failed: %v", err)
	}
	if d.Status != StatusDraft {
		t.Fatalf("expected draft status, got %s", d.Status)
	}

	if _, err := svc.Checkout(3, []ItemRequest{{ProductID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	drafts, err := svc.ListDrafts()
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if n, _ := svc.DraftCount(); n != 1 {
		t.Fatalf("expected draft count 1, got %d", n)
	}
	// sells count covers completed carts only
	if n, _ := svc.SellsCount(); n != 0 {
		t.Fatalf("expected sells count 0, got %d", n)
	}
}

func TestComplete_ValidatesTransition(t *testing.T) {
	svc, repo := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 1.0, Qty: 10},
	})

	confirmed, err := svc.Checkout(1, []ItemRequest{{ProductID: 1, Quantity: 1}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if err := svc.Complete(confirmed.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	stored, _ := repo.GetByID(confirmed.ID)
	if stored.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}

	// completed is terminal
	if err := svc.Complete(confirmed.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := svc.Complete(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type stubPaymentChecker struct {
	paid map[int]bool
}

func (s *stubPaymentChecker) ExistsForCart(cartID int) (bool, error) {
	return s.paid[cartID], nil
}

func TestUpdateAndRemove_GuardPaidCarts(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 1.0, Qty: 10},
	})

	confirmed, err := svc.Checkout(1, []ItemRequest{{ProductID: 1, Quantity: 2}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	svc.SetPaymentChecker(&stubPaymentChecker{paid: map[int]bool{confirmed.ID: true}})

	if _, err := svc.Update(confirmed.ID, []ItemRequest{{ProductID: 1, Quantity: 1}}); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable on update, got %v", err)
	}
	if err := svc.Remove(confirmed.ID); !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable on remove, got %v", err)
	}
}

func TestUpdate_ReconcilesAgainstCurrentStock(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "A", Price: 4.0, Qty: 10},
	})
	svc.SetPaymentChecker(&stubPaymentChecker{paid: map[int]bool{}})

	confirmed, err := svc.Checkout(1, []ItemRequest{{ProductID: 1, Quantity: 2}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	updated, err := svc.Update(confirmed.ID, []ItemRequest{{ProductID: 1, Quantity: 3}})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Value != 12.0 {
		t.Fatalf("expected value 12.0, got %v", updated.Value)
	}

	var oq *draft.OverQuantityError
	if _, err := svc.Update(confirmed.ID, []ItemRequest{{ProductID: 1, Quantity: 11}}); !errors.As(err, &oq) {
		t.Fatalf("expected OverQuantityError, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		label   string
		want    Status
		wantErr bool
	}{
		{"", StatusConfirmed, false},
		{"draft", StatusDraft, false},
		{"confirmed", StatusConfirmed, false},
		{"completed", StatusCompleted, false},
		{"payed", StatusCompleted, false},
		{"bogus", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.label)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseStatus(%q): expected error", tc.label)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tc.label, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", tc.label, got, tc.want)
		}
	}
}
