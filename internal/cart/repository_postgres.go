package cart

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertCartQuery = `
		INSERT INTO carts (user_id, items, status, value, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING cart_id
	`
	getCartByIDQuery = `
		SELECT cart_id, user_id, items, status, value, created_at, updated_at
		FROM carts
		WHERE cart_id = $1
	`
	getLatestCartByUserQuery = `
		SELECT cart_id, user_id, items, status, value, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		ORDER BY cart_id DESC
		LIMIT 1
	`
	listCartsByStatusQuery = `
		SELECT cart_id, user_id, items, status, value, created_at, updated_at
		FROM carts
		WHERE status = $1
		ORDER BY cart_id
	`
	countCartsByStatusQuery = `SELECT COUNT(*) FROM carts WHERE status = $1`
	updateCartQuery         = `
		UPDATE carts
		SET items = $1,
			status = $2,
			value = $3,
			updated_at = $4
		WHERE cart_id = $5
	`
	updateCartStatusQuery = `UPDATE carts SET status = $1, updated_at = $2 WHERE cart_id = $3`
	deleteCartQuery       = `DELETE FROM carts WHERE cart_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(c Cart) (Cart, error) {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return Cart{}, err
	}

	var id int
	err = r.db.QueryRow(insertCartQuery,
		c.UserID, itemsJSON, string(c.Status), c.Value, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Cart{}, err
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) GetByID(id int) (Cart, error) {
	row := r.db.QueryRow(getCartByIDQuery, id)
	c, err := scanCart(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}
	return c, nil
}

func (r *PostgresRepository) GetLatestByUser(userID int) (Cart, error) {
	row := r.db.QueryRow(getLatestCartByUserQuery, userID)
	c, err := scanCart(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}
	return c, nil
}

func (r *PostgresRepository) ListByStatus(status Status) ([]Cart, error) {
	rows, err := r.db.Query(listCartsByStatusQuery, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Cart, 0)
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountByStatus(status Status) (int, error) {
	var n int
	if err := r.db.QueryRow(countCartsByStatusQuery, string(status)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresRepository) Update(id int, c Cart) (Cart, error) {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return Cart{}, err
	}

	result, err := r.db.Exec(updateCartQuery, itemsJSON, string(c.Status), c.Value, c.UpdatedAt, id)
	if err != nil {
		return Cart{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Cart{}, err
	}
	if affected == 0 {
		return Cart{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) UpdateStatus(id int, status Status, updatedAt string) error {
	result, err := r.db.Exec(updateCartStatusQuery, string(status), updatedAt, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteCartQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCart(scanner rowScanner) (Cart, error) {
	c := Cart{}
	var (
		itemsJSON []byte
		status    string
		createdAt sql.NullString
		updatedAt sql.NullString
	)

	if err := scanner.Scan(&c.ID, &c.UserID, &itemsJSON, &status, &c.Value, &createdAt, &updatedAt); err != nil {
		return Cart{}, err
	}

	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return Cart{}, err
	}
	c.Status = Status(status)
	if createdAt.Valid {
		c.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.String
	}
	return c, nil
}
