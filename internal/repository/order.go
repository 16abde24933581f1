package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/washdesk/backend/internal/models"
	"github.com/washdesk/backend/internal/repository/postgres"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, customer_name, customer_phone, customer_address,
						                    subtotal, tax, total_amount, status, assignment_status, assigned_employee_id)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
						RETURNING created_at, updated_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, position, service_id, addon_ids, package_type, package_times,
						                         scheduled_date, scheduled_slot, unit_price, addons_total, line_total)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
						RETURNING id
`
	insertAssignmentQuery = `
						INSERT INTO assignments (order_id, employee_id, status, assigned_at)
						VALUES ($1, $2, $3, $4)
`
	selectOrderByIDQuery = `
						SELECT id, customer_name, customer_phone, customer_address,
						       subtotal, tax, total_amount, status, assignment_status,
						       COALESCE(assigned_employee_id, ''), created_at, updated_at
						FROM orders
						WHERE id = $1
`
	selectOrdersQuery = `
						SELECT id, customer_name, customer_phone, customer_address,
						       subtotal, tax, total_amount, status, assignment_status,
						       COALESCE(assigned_employee_id, ''), created_at, updated_at
						FROM orders
						ORDER BY created_at DESC
`
	selectOrdersByStatusQuery = `
						SELECT id, customer_name, customer_phone, customer_address,
						       subtotal, tax, total_amount, status, assignment_status,
						       COALESCE(assigned_employee_id, ''), created_at, updated_at
						FROM orders
						WHERE status = ANY($1)
						ORDER BY created_at DESC
`
	selectOrdersByAssignmentQuery = `
						SELECT o.id, o.customer_name, o.customer_phone, o.customer_address,
						       o.subtotal, o.tax, o.total_amount, o.status, o.assignment_status,
						       COALESCE(o.assigned_employee_id, ''), o.created_at, o.updated_at
						FROM orders o
						JOIN assignments a ON a.order_id = o.id
						WHERE a.employee_id = $1
						  AND a.status = ANY($2)
						ORDER BY o.created_at DESC
`
	selectOrdersByAssignmentUpdatedQuery = `
						SELECT o.id, o.customer_name, o.customer_phone, o.customer_address,
						       o.subtotal, o.tax, o.total_amount, o.status, o.assignment_status,
						       COALESCE(o.assigned_employee_id, ''), o.created_at, o.updated_at
						FROM orders o
						JOIN assignments a ON a.order_id = o.id
						WHERE a.employee_id = $1
						  AND a.status = ANY($2)
						ORDER BY o.updated_at DESC
`
	selectOrderItemsQuery = `
						SELECT id, service_id, addon_ids, package_type, package_times,
						       scheduled_date, scheduled_slot, unit_price, addons_total, line_total
						FROM order_items
						WHERE order_id = $1
						ORDER BY position
`
	selectAssignmentsQuery = `
						SELECT order_id, employee_id, status, assigned_at, accepted_at, declined_at, completed_at
						FROM assignments
						WHERE order_id = $1
						ORDER BY assigned_at, employee_id
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $2, updated_at = $3
						WHERE id = $1
`
	completeAcceptedAssignmentQuery = `
						UPDATE assignments
						SET status = 'completed', completed_at = $2
						WHERE order_id = $1
						  AND status = 'accepted'
`
	acceptAssignmentQuery = `
						UPDATE assignments
						SET status = 'accepted', accepted_at = $3
						WHERE order_id = $1
						  AND employee_id = $2
						  AND status = 'pending'
`
	declineAssignmentQuery = `
						UPDATE assignments
						SET status = 'declined', declined_at = $3
						WHERE order_id = $1
						  AND employee_id = $2
						  AND status = 'pending'
`
	declineSiblingAssignmentsQuery = `
						UPDATE assignments
						SET status = 'declined', declined_at = $3
						WHERE order_id = $1
						  AND employee_id <> $2
						  AND status = 'pending'
`
	selectAssignmentStatusQuery = `
						SELECT status FROM assignments
						WHERE order_id = $1
						  AND employee_id = $2
`
	lockAssignmentsQuery = `
						SELECT 1 FROM assignments
						WHERE order_id = $1
						ORDER BY employee_id
						FOR UPDATE
`
	markOrderAcceptedQuery = `
						UPDATE orders
						SET assignment_status = 'accepted', assigned_employee_id = $2, updated_at = $3
						WHERE id = $1
`
	markOrderUnassignedQuery = `
						UPDATE orders
						SET assignment_status = 'declined', assigned_employee_id = NULL, updated_at = $2
						WHERE id = $1
						  AND NOT EXISTS (SELECT 1
						                  FROM assignments
						                  WHERE order_id = $1
						                    AND status IN ('pending', 'accepted'))
`
	payOrderQuery = `
						UPDATE orders
						SET status = 'Paid', updated_at = $2
						WHERE id = $1
						  AND status = 'Pending'
`
	touchOrderQuery = `
						UPDATE orders
						SET updated_at = $2
						WHERE id = $1
`
	orderExistsQuery = `
						SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
`
)

// OrderRepository implements order persistence over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order with its line items and assignments
// in a single transaction.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var assignedEmployeeID *string
	if order.AssignedEmployeeID != "" {
		assignedEmployeeID = &order.AssignedEmployeeID
	}

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.ID,
		order.Customer.Name,
		order.Customer.Phone,
		order.Customer.Address,
		order.Subtotal,
		order.Tax,
		order.TotalAmount,
		order.Status,
		order.AssignmentStatus,
		assignedEmployeeID,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		addOnIDs := item.AddOnIDs
		if addOnIDs == nil {
			addOnIDs = []string{}
		}
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			order.ID,
			i,
			item.ServiceID,
			addOnIDs,
			item.PackageType,
			item.PackageTimes,
			item.ScheduledDate,
			item.ScheduledSlot,
			item.UnitPrice,
			item.AddOnsTotal,
			item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	for i := range order.Assignments {
		a := &order.Assignments[i]
		_, err = tx.Exec(ctx, insertAssignmentQuery, order.ID, a.EmployeeID, a.Status, a.AssignedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns the order with its items and assignments
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, id).Scan(
		&order.ID,
		&order.Customer.Name,
		&order.Customer.Phone,
		&order.Customer.Address,
		&order.Subtotal,
		&order.Tax,
		&order.TotalAmount,
		&order.Status,
		&order.AssignmentStatus,
		&order.AssignedEmployeeID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	if err := or.loadDetails(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListOrders returns orders newest-first, optionally filtered by status
func (or *OrderRepository) ListOrders(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, error) {
	var rows pgx.Rows
	var err error

	if len(statuses) > 0 {
		filter := make([]string, 0, len(statuses))
		for _, s := range statuses {
			filter = append(filter, string(s))
		}
		rows, err = or.db.Query(ctx, selectOrdersByStatusQuery, filter)
	} else {
		rows, err = or.db.Query(ctx, selectOrdersQuery)
	}
	if err != nil {
		return nil, err
	}

	return or.collectOrders(ctx, rows)
}

// ListOrdersByAssignment returns orders carrying an assignment for the
// employee in one of the given states, newest-first. History views sort
// by last update instead of creation time.
func (or *OrderRepository) ListOrdersByAssignment(ctx context.Context, employeeID string, statuses []models.AssignmentStatus, byUpdated bool) ([]models.Order, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	query := selectOrdersByAssignmentQuery
	if byUpdated {
		query = selectOrdersByAssignmentUpdatedQuery
	}

	rows, err := or.db.Query(ctx, query, employeeID, filter)
	if err != nil {
		return nil, err
	}

	return or.collectOrders(ctx, rows)
}

// UpdateOrderStatus sets a new overall order status. Moving to Completed
// also transitions the accepted assignment, if any, to completed within
// the same transaction.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	cmd, err := tx.Exec(ctx, updateOrderStatusQuery, id, status, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}

	if status == models.OrderStatusCompleted {
		// no accepted assignment is fine: the order can be completed
		// administratively with no technician recorded
		if _, err := tx.Exec(ctx, completeAcceptedAssignmentQuery, id, now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// AcceptAssignment transitions the employee's pending assignment to
// accepted. Every sibling assignment still pending on the order is
// declined in the same transaction, so the order is claimed by exactly
// one technician. The order's assignment rows are locked up front in
// employee order, so a concurrent accept waits here and then fails the
// conditional update with ErrAlreadyResponded instead of deadlocking.
func (or *OrderRepository) AcceptAssignment(ctx context.Context, orderID, employeeID string) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if _, err := tx.Exec(ctx, lockAssignmentsQuery, orderID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, acceptAssignmentQuery, orderID, employeeID, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return or.assignmentMissReason(ctx, tx, orderID, employeeID)
	}

	if _, err := tx.Exec(ctx, declineSiblingAssignmentsQuery, orderID, employeeID, now); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, markOrderAcceptedQuery, orderID, employeeID, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeclineAssignment transitions the employee's pending assignment to
// declined. When no assignment on the order remains pending or accepted,
// the order is marked as needing re-dispatch.
func (or *OrderRepository) DeclineAssignment(ctx context.Context, orderID, employeeID string) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	if _, err := tx.Exec(ctx, lockAssignmentsQuery, orderID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, declineAssignmentQuery, orderID, employeeID, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return or.assignmentMissReason(ctx, tx, orderID, employeeID)
	}

	// the rollup is a single conditional update so the NOT EXISTS check
	// re-evaluates against committed rows at lock time, not the snapshot
	// this transaction started with
	cmd, err = tx.Exec(ctx, markOrderUnassignedQuery, orderID, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, touchOrderQuery, orderID, now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// MarkOrderPaid moves a pending order to Paid with a conditional update,
// so only one of two concurrent payments can succeed.
func (or *OrderRepository) MarkOrderPaid(ctx context.Context, id string) error {
	cmd, err := or.db.Exec(ctx, payOrderQuery, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := or.db.QueryRow(ctx, orderExistsQuery, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return models.ErrOrderNotFound
	}

	return models.ErrOrderNotPayable
}

// assignmentMissReason explains a conditional-update miss: the order does
// not exist, the employee was never assigned, or the assignment has left
// the pending state.
func (or *OrderRepository) assignmentMissReason(ctx context.Context, tx pgx.Tx, orderID, employeeID string) error {
	var status string
	err := tx.QueryRow(ctx, selectAssignmentStatusQuery, orderID, employeeID).Scan(&status)
	if err == nil {
		return models.ErrAlreadyResponded
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if err := tx.QueryRow(ctx, orderExistsQuery, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return models.ErrOrderNotFound
	}

	return models.ErrAssignmentNotFound
}

func (or *OrderRepository) collectOrders(ctx context.Context, rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Customer.Name,
			&order.Customer.Phone,
			&order.Customer.Address,
			&order.Subtotal,
			&order.Tax,
			&order.TotalAmount,
			&order.Status,
			&order.AssignmentStatus,
			&order.AssignedEmployeeID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := or.loadDetails(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (or *OrderRepository) loadDetails(ctx context.Context, order *models.Order) error {
	itemRows, err := or.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return err
	}
	defer itemRows.Close()

	order.Items = []models.OrderLineItem{}
	for itemRows.Next() {
		item := models.OrderLineItem{}
		err = itemRows.Scan(
			&item.ID,
			&item.ServiceID,
			&item.AddOnIDs,
			&item.PackageType,
			&item.PackageTimes,
			&item.ScheduledDate,
			&item.ScheduledSlot,
			&item.UnitPrice,
			&item.AddOnsTotal,
			&item.LineTotal,
		)
		if err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	assignmentRows, err := or.db.Query(ctx, selectAssignmentsQuery, order.ID)
	if err != nil {
		return err
	}
	defer assignmentRows.Close()

	order.Assignments = []models.Assignment{}
	for assignmentRows.Next() {
		a := models.Assignment{}
		err = assignmentRows.Scan(
			&a.OrderID,
			&a.EmployeeID,
			&a.Status,
			&a.AssignedAt,
			&a.AcceptedAt,
			&a.DeclinedAt,
			&a.CompletedAt,
		)
		if err != nil {
			continue
		}
		order.Assignments = append(order.Assignments, a)
	}

	return assignmentRows.Err()
}
