package payment

import (
	"errors"
	"sync"
)

var (
	ErrNotFound     = errors.New("payment not found")
	ErrCartNotFound = errors.New("cart not found")
	ErrCartPaid     = errors.New("cart already has a payment")
	// ErrAmountMismatch rejects a caller-supplied amount that differs from
	// the cart's stored value.
	ErrAmountMismatch = errors.New("payment amount does not match cart value")
)

type Repository interface {
	Create(p Payment) (Payment, error)
	GetByID(id int) (Payment, error)
	List() ([]Payment, error)
	Update(id int, p Payment) (Payment, error)
	Delete(id int) error
	ExistsForCart(cartID int) (bool, error)
}

// InMemoryRepository is used for tests and the no-database dev server.
type InMemoryRepository struct {
	mu       sync.RWMutex
	payments []Payment
	nextID   int
}

func NewInMemoryRepository(seed []Payment) *InMemoryRepository {
	r := &InMemoryRepository{
		payments: make([]Payment, 0, len(seed)),
		nextID:   1,
	}

	maxID := 0
	for _, p := range seed {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	for _, p := range seed {
		if p.ID == 0 {
			maxID++
			p.ID = maxID
		}
		r.payments = append(r.payments, p)
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.payments = append(r.payments, p)
	return p, nil
}

func (r *InMemoryRepository) GetByID(id int) (Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) List() ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Payment, len(r.payments))
	copy(out, r.payments)
	return out, nil
}

func (r *InMemoryRepository) Update(id int, p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].ID == id {
			p.ID = id
			r.payments[i] = p
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].ID == id {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ExistsForCart(cartID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.CartID == cartID {
			return true, nil
		}
	}
	return false, nil
}
