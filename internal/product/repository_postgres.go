package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, name, price, description, category, qty, date_of_purchase, expiry_date, img_url, created_at, updated_at
		FROM products
		ORDER BY product_id
	`
	getProductByIDQuery = `
		SELECT product_id, name, price, description, category, qty, date_of_purchase, expiry_date, img_url, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`
	listProductsByIDsQuery = `
		SELECT product_id, name, price, description, category, qty, date_of_purchase, expiry_date, img_url, created_at, updated_at
		FROM products
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	insertProductQuery = `
		INSERT INTO products (name, price, description, category, qty, date_of_purchase, expiry_date, img_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			price = $2,
			description = $3,
			category = $4,
			qty = $5,
			date_of_purchase = $6,
			expiry_date = $7,
			img_url = $8,
			updated_at = $9
		WHERE product_id = $10
	`
	deleteProductQuery   = `DELETE FROM products WHERE product_id = $1`
	countProductsQuery   = `SELECT COUNT(*) FROM products`
	countByCategoryQuery = `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY category
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ListByIDs retrieves the products for all ids in the provided slice, ordered
// the same way as the ids argument. Returns an empty slice when input is empty.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Price,
		p.Description,
		p.Category,
		p.Qty,
		p.DateOfPurchase,
		p.ExpiryDate,
		p.ImgURL,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name,
		p.Price,
		p.Description,
		p.Category,
		p.Qty,
		p.DateOfPurchase,
		p.ExpiryDate,
		p.ImgURL,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
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

func (r *PostgresRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(countProductsQuery).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresRepository) CountByCategory() ([]CategoryCount, error) {
	rows, err := r.db.Query(countByCategoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryCount, 0)
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		description    sql.NullString
		category       sql.NullString
		dateOfPurchase sql.NullString
		imgURL         sql.NullString
		createdAt      sql.NullString
		updatedAt      sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&description,
		&category,
		&p.Qty,
		&dateOfPurchase,
		&p.ExpiryDate,
		&imgURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}

	if description.Valid {
		p.Description = description.String
	}
	if category.Valid {
		p.Category = category.String
	}
	if dateOfPurchase.Valid {
		p.DateOfPurchase = dateOfPurchase.String
	}
	if imgURL.Valid {
		p.ImgURL = imgURL.String
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.String
	}

	return p, nil
}
