package cart

import (
	"fmt"
	"time"

	"github.com/freshmart/grocery-backend/internal/draft"
	"github.com/freshmart/grocery-backend/internal/product"
)

// ItemRequest is a client-submitted {product, quantity} pair.
type ItemRequest struct {
	ProductID int `json:"product"`
	Quantity  int `json:"quantity"`
}

// PaymentChecker reports whether a payment already references a cart. It is
// implemented by the payment service; carts referenced by a payment are
// immutable.
type PaymentChecker interface {
	ExistsForCart(cartID int) (bool, error)
}

// Service reconciles client-held cart contents against live inventory and
// owns the durable cart records.
type Service struct {
	repo     Repository
	products product.ServiceInterface
	payments PaymentChecker
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

// SetPaymentChecker wires the payment back-reference guard. Set after both
// services exist; nil means no guard (tests that do not care about payments).
func (s *Service) SetPaymentChecker(pc PaymentChecker) {
	s.payments = pc
}

// reconcile replays the submitted items through a fresh draft cart: every
// referenced product must exist and every merged quantity must fit the
// current stock. Nothing is persisted here, so a failed line leaves no
// partial state behind.
func (s *Service) reconcile(userID int, items []ItemRequest) (*draft.Cart, error) {
	d := draft.NewCart(userID)
	for _, it := range items {
		p, err := s.products.GetByID(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, it.ProductID)
		}
		if err := d.AddItem(p, it.Quantity); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *Service) persist(d *draft.Cart, status Status) (Cart, error) {
	lines := d.Lines()
	items := make([]Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(Cart{
		UserID:    d.UserID,
		Items:     items,
		Status:    status,
		Value:     d.Total(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Checkout validates the submitted items against live inventory, computes the
// cart value from current store prices and persists a confirmed cart. The
// client's own total is ignored. Validation happens entirely before the
// single insert, so a rejected checkout writes nothing.
func (s *Service) Checkout(userID int, items []ItemRequest) (Cart, error) {
	if len(items) == 0 {
		return Cart{}, ErrEmptyCart
	}
	d, err := s.reconcile(userID, items)
	if err != nil {
		return Cart{}, err
	}
	return s.persist(d, StatusConfirmed)
}

// SaveDraft persists a draft cart for the draft-orders dashboard. The same
// reconciliation runs so a draft never references missing products or
// impossible quantities.
func (s *Service) SaveDraft(userID int, items []ItemRequest) (Cart, error) {
	if len(items) == 0 {
		return Cart{}, ErrEmptyCart
	}
	d, err := s.reconcile(userID, items)
	if err != nil {
		return Cart{}, err
	}
	return s.persist(d, StatusDraft)
}

func (s *Service) GetByID(cartID int) (Cart, error) {
	return s.repo.GetByID(cartID)
}

// GetLatestForUser returns the user's most recent cart with its line items
// enriched with product details.
func (s *Service) GetLatestForUser(userID int) (Cart, error) {
	c, err := s.repo.GetLatestByUser(userID)
	if err != nil {
		return Cart{}, err
	}
	s.enrich(&c)
	return c, nil
}

func (s *Service) enrich(c *Cart) {
	if len(c.Items) == 0 {
		return
	}
	ids := make([]int, 0, len(c.Items))
	for _, l := range c.Items {
		ids = append(ids, l.ProductID)
	}
	prods, err := s.products.ListByIDs(ids)
	if err != nil {
		return
	}
	c.Products = prods
}

func (s *Service) ListDrafts() ([]Cart, error) {
	return s.repo.ListByStatus(StatusDraft)
}

// SellsCount counts completed checkouts.
func (s *Service) SellsCount() (int, error) {
	return s.repo.CountByStatus(StatusCompleted)
}

func (s *Service) DraftCount() (int, error) {
	return s.repo.CountByStatus(StatusDraft)
}

func (s *Service) guardMutable(c Cart) error {
	if c.Status == StatusCompleted {
		return ErrImmutable
	}
	if s.payments != nil {
		referenced, err := s.payments.ExistsForCart(c.ID)
		if err != nil {
			return err
		}
		if referenced {
			return ErrImmutable
		}
	}
	return nil
}

// Update re-runs reconciliation over a stored cart with new items. Completed
// carts and carts already referenced by a payment are rejected.
func (s *Service) Update(cartID int, items []ItemRequest) (Cart, error) {
	existing, err := s.repo.GetByID(cartID)
	if err != nil {
		return Cart{}, err
	}
	if err := s.guardMutable(existing); err != nil {
		return Cart{}, err
	}
	if len(items) == 0 {
		return Cart{}, ErrEmptyCart
	}

	d, err := s.reconcile(existing.UserID, items)
	if err != nil {
		return Cart{}, err
	}

	lines := d.Lines()
	updated := existing
	updated.Items = make([]Line, 0, len(lines))
	for _, l := range lines {
		updated.Items = append(updated.Items, Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	updated.Value = d.Total()
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	return s.repo.Update(cartID, updated)
}

// Remove deletes a cart unless a payment already references it.
func (s *Service) Remove(cartID int) error {
	existing, err := s.repo.GetByID(cartID)
	if err != nil {
		return err
	}
	if err := s.guardMutable(existing); err != nil {
		return err
	}
	return s.repo.Delete(cartID)
}

// Complete transitions a confirmed cart to completed. Only the payment
// recorder calls this, after the payment row exists.
func (s *Service) Complete(cartID int) error {
	existing, err := s.repo.GetByID(cartID)
	if err != nil {
		return err
	}
	if !existing.Status.CanTransition(StatusCompleted) {
		return ErrInvalidTransition
	}
	return s.repo.UpdateStatus(cartID, StatusCompleted, time.Now().UTC().Format(time.RFC3339))
}
