package payment

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/freshmart/grocery-backend/internal/cart"
)

// CartService is the part of the cart service the recorder depends on.
type CartService interface {
	GetByID(cartID int) (cart.Cart, error)
	Complete(cartID int) error
}

// Service records payments against confirmed carts. Creation is the terminal
// step of a checkout; update and delete exist for administration only.
type Service struct {
	repo  Repository
	carts CartService
}

func NewService(repo Repository, carts CartService) *Service {
	return &Service{repo: repo, carts: carts}
}

// ExistsForCart implements cart.PaymentChecker.
func (s *Service) ExistsForCart(cartID int) (bool, error) {
	return s.repo.ExistsForCart(cartID)
}

// amounts are decimals that may have taken different float paths on the
// client and server; anything under half a cent is the same money.
func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// Record validates and persists a payment for cartID. The referenced cart
// must exist, must not already carry a payment, and the supplied amount must
// equal the cart's stored value. On success the cart transitions to
// completed. The payment insert and the status update are two independent
// writes; a crash between them leaves a confirmed cart that already carries a
// payment, and the existence check still blocks a second payment.
func (s *Service) Record(cartID int, amount float64, cardHolder, cardNumber, expDate string) (Payment, error) {
	target, err := s.carts.GetByID(cartID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return Payment{}, ErrCartNotFound
		}
		return Payment{}, err
	}

	if referenced, err := s.repo.ExistsForCart(cartID); err != nil {
		return Payment{}, err
	} else if referenced {
		return Payment{}, ErrCartPaid
	}

	if !amountsEqual(amount, target.Value) {
		return Payment{}, ErrAmountMismatch
	}

	created, err := s.repo.Create(Payment{
		CartID:     cartID,
		Amount:     amount,
		CardHolder: cardHolder,
		CardNumber: cardNumber,
		ExpDate:    expDate,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Payment{}, err
	}

	if err := s.carts.Complete(cartID); err != nil {
		log.Printf("warning: could not mark cart %d completed: %v", cartID, err)
	}
	return created, nil
}

// GetByID returns a payment with its cart populated.
func (s *Service) GetByID(id int) (Payment, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return Payment{}, err
	}
	s.populate(&p)
	return p, nil
}

// List returns all payments with their carts populated.
func (s *Service) List() ([]Payment, error) {
	payments, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for i := range payments {
		s.populate(&payments[i])
	}
	return payments, nil
}

func (s *Service) populate(p *Payment) {
	if s.carts == nil {
		return
	}
	if c, err := s.carts.GetByID(p.CartID); err == nil {
		p.CartDetail = &c
	}
}

// Update replaces an existing payment's fields. Administrative use only; the
// checkout path never calls this.
func (s *Service) Update(id int, p Payment) (Payment, error) {
	return s.repo.Update(id, p)
}

// Delete removes a payment. Administrative use only.
func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
