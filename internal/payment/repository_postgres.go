package payment

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertPaymentQuery = `
		INSERT INTO payments (cart_id, amount, card_holder, card_number, exp_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING payment_id
	`
	getPaymentByIDQuery = `
		SELECT payment_id, cart_id, amount, card_holder, card_number, exp_date, created_at
		FROM payments
		WHERE payment_id = $1
	`
	listPaymentsQuery = `
		SELECT payment_id, cart_id, amount, card_holder, card_number, exp_date, created_at
		FROM payments
		ORDER BY payment_id
	`
	updatePaymentQuery = `
		UPDATE payments
		SET cart_id = $1,
			amount = $2,
			card_holder = $3,
			card_number = $4,
			exp_date = $5
		WHERE payment_id = $6
	`
	deletePaymentQuery = `DELETE FROM payments WHERE payment_id = $1`
	existsForCartQuery = `SELECT EXISTS (SELECT 1 FROM payments WHERE cart_id = $1)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(p Payment) (Payment, error) {
	var id int
	err := r.db.QueryRow(insertPaymentQuery,
		p.CartID, p.Amount, p.CardHolder, p.CardNumber, p.ExpDate, p.CreatedAt,
	).Scan(&id)
	if err != nil {
		return Payment{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) GetByID(id int) (Payment, error) {
	row := r.db.QueryRow(getPaymentByIDQuery, id)
	p, err := scanPayment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) List() ([]Payment, error) {
	rows, err := r.db.Query(listPaymentsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(id int, p Payment) (Payment, error) {
	result, err := r.db.Exec(updatePaymentQuery,
		p.CartID, p.Amount, p.CardHolder, p.CardNumber, p.ExpDate, id,
	)
	if err != nil {
		return Payment{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Payment{}, err
	}
	if affected == 0 {
		return Payment{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deletePaymentQuery, id)
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

func (r *PostgresRepository) ExistsForCart(cartID int) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(existsForCartQuery, cartID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(scanner rowScanner) (Payment, error) {
	p := Payment{}
	var createdAt sql.NullString
	if err := scanner.Scan(&p.ID, &p.CartID, &p.Amount, &p.CardHolder, &p.CardNumber, &p.ExpDate, &createdAt); err != nil {
		return Payment{}, err
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.String
	}
	return p, nil
}
