package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

type serviceOrderRepository struct {
	db *sql.DB
}

// NewServiceOrderRepository создаёт PostgreSQL-реализацию ServiceOrderRepository.
func NewServiceOrderRepository(store *Store) domain.ServiceOrderRepository {
	return &serviceOrderRepository{db: store.DB()}
}

func (r *serviceOrderRepository) Create(order domain.ServiceOrder) (domain.ServiceOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO service_orders (
			customer_id, description, price_minor, status,
			opened_at, finished_at, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`,
		order.CustomerID, order.Description, order.PriceMinor, string(order.Status),
		order.OpenedAt, order.FinishedAt, order.Version, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ServiceOrder{}, domain.ErrUnknownCustomer
		}
		return domain.ServiceOrder{}, fmt.Errorf("insert service order: %w", err)
	}

	order.Comments = []domain.Comment{}
	return order, nil
}

func (r *serviceOrderRepository) GetByID(id int64) (domain.ServiceOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		order  domain.ServiceOrder
		status string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, description, price_minor, status,
		       opened_at, finished_at, version, created_at, updated_at
		FROM service_orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.Description, &order.PriceMinor, &status,
		&order.OpenedAt, &order.FinishedAt, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ServiceOrder{}, domain.ErrOrderNotFound
		}
		return domain.ServiceOrder{}, fmt.Errorf("select service order: %w", err)
	}
	order.Status = domain.ServiceOrderStatus(status)

	comments, err := r.loadComments(ctx, order.ID)
	if err != nil {
		return domain.ServiceOrder{}, err
	}
	order.Comments = comments

	return order, nil
}

func (r *serviceOrderRepository) GetAll() ([]domain.ServiceOrder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, description, price_minor, status,
		       opened_at, finished_at, version, created_at, updated_at
		FROM service_orders
		ORDER BY opened_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.ServiceOrder, 0)
	for rows.Next() {
		var (
			order  domain.ServiceOrder
			status string
		)
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.Description, &order.PriceMinor, &status,
			&order.OpenedAt, &order.FinishedAt, &order.Version, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service order row: %w", err)
		}
		order.Status = domain.ServiceOrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service order rows: %w", err)
	}

	for i := range orders {
		comments, err := r.loadComments(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Comments = comments
	}

	return orders, nil
}

func (r *serviceOrderRepository) Finish(order domain.ServiceOrder) error {
	return r.saveTransition(order)
}

func (r *serviceOrderRepository) Cancel(order domain.ServiceOrder) error {
	return r.saveTransition(order)
}

func (r *serviceOrderRepository) AddComment(comment domain.Comment) (domain.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO service_order_comments (order_id, author, body, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, comment.OrderID, comment.Author, comment.Text, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Comment{}, domain.ErrOrderNotFound
		}
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	return comment, nil
}

// saveTransition записывает смену статуса заказа с проверкой версии.
func (r *serviceOrderRepository) saveTransition(order domain.ServiceOrder) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE service_orders
		SET status = $1,
		    finished_at = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		  AND version = $5
	`,
		string(order.Status), order.FinishedAt, order.UpdatedAt,
		order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update service order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrOrderVersionConflict
	}

	return nil
}

func (r *serviceOrderRepository) loadComments(ctx context.Context, orderID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, author, body, created_at
		FROM service_order_comments
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.OrderID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (r *serviceOrderRepository) orderExists(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM service_orders WHERE id = $1`, id).Scan(&found)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check service order exists: %w", err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

var _ domain.ServiceOrderRepository = (*serviceOrderRepository)(nil)
