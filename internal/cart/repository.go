package cart

import (
	"errors"
	"sync"
)

var (
	ErrNotFound          = errors.New("cart not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrImmutable         = errors.New("cart is referenced by a payment")
	ErrInvalidTransition = errors.New("invalid cart status transition")
)

type Repository interface {
	Create(c Cart) (Cart, error)
	GetByID(id int) (Cart, error)
	// GetLatestByUser returns the most recently created cart for the user.
	GetLatestByUser(userID int) (Cart, error)
	ListByStatus(status Status) ([]Cart, error)
	CountByStatus(status Status) (int, error)
	Update(id int, c Cart) (Cart, error)
	UpdateStatus(id int, status Status, updatedAt string) error
	Delete(id int) error
}

// InMemoryRepository is used for tests and the no-database dev server.
type InMemoryRepository struct {
	mu     sync.RWMutex
	carts  []Cart
	nextID int
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	r := &InMemoryRepository{
		carts:  make([]Cart, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, c := range seed {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	for _, c := range seed {
		if c.ID == 0 {
			maxID++
			c.ID = maxID
		}
		r.carts = append(r.carts, c)
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.carts = append(r.carts, c)
	return c, nil
}

func (r *InMemoryRepository) GetByID(id int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.carts {
		if c.ID == id {
			return c, nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) GetLatestByUser(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.carts) - 1; i >= 0; i-- {
		if r.carts[i].UserID == userID {
			return r.carts[i], nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) ListByStatus(status Status) ([]Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Cart, 0)
	for _, c := range r.carts {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) CountByStatus(status Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.carts {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) Update(id int, c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == id {
			c.ID = id
			r.carts[i] = c
			return c, nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(id int, status Status, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == id {
			r.carts[i].Status = status
			if updatedAt != "" {
				r.carts[i].UpdatedAt = updatedAt
			}
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == id {
			r.carts = append(r.carts[:i], r.carts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
