package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns a not-found error when no order with the
// requested identifier exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			vendor_id,
			courier_id,
			pickup_address,
			delivery_address,
			total_cents,
			delivery_fee_cents,
			payment_status,
			status,
			created_at,
			estimated_delivery_at,
			actual_delivery_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row().Scan(
		&resp.ID,
		&resp.CustomerID,
		&resp.VendorID,
		&resp.CourierID,
		&resp.PickupAddress,
		&resp.DeliveryAddress,
		&resp.TotalCents,
		&resp.DeliveryFeeCents,
		&resp.PaymentStatus,
		&resp.Status,
		&resp.CreatedAt,
		&resp.EstimatedDeliveryAt,
		&resp.ActualDeliveryAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("orderID", query.OrderID().String(), err)
		}
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
