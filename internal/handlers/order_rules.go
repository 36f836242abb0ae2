package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gopts/internal/models"
)

// Production/shipment statuses a manager may log against an approved order.
// The final entry completes the order.
var trackingStatuses = []string{
	"Cutting Completed!",
	"Sewing Started!",
	"Finishing!",
	"QC Checked!",
	"Packed!",
	"Shipped!",
	"Out For Delivery!",
	"Delivered!",
}

const trackingTerminalStatus = "Delivered!"

type belowMOQError struct {
	MOQ       int
	Requested int
}

func (e belowMOQError) Error() string {
	return fmt.Sprintf("cannot order less than minimum order quantity (%d)", e.MOQ)
}

type outOfStockError struct {
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return fmt.Sprintf("cannot order more than available quantity (%d)", e.Available)
}

var (
	errInvalidQuantity = errors.New("quantity must be greater than zero")
	errNotOrderOwner   = errors.New("order does not belong to caller")
	errOrderNotPending = errors.New("only pending orders can be canceled")
)

// validateBookingQuantity enforces moq <= requested <= available. This is the
// authoritative check; the same rule exists client-side only as a UX guard.
func validateBookingQuantity(moq, available, requested int) error {
	if requested <= 0 {
		return errInvalidQuantity
	}
	if requested < moq {
		return belowMOQError{MOQ: moq, Requested: requested}
	}
	if requested > available {
		return outOfStockError{Available: available, Requested: requested}
	}
	return nil
}

func canCancelOrder(order models.Order, uid string) error {
	if order.UserID != uid {
		return errNotOrderOwner
	}
	if order.Status != models.OrderPending {
		return errOrderNotPending
	}
	return nil
}

// canManageOrder reports whether the caller may approve/reject/track the
// order: the owning manager, or any admin.
func canManageOrder(order models.Order, user models.User) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == models.RoleManager && order.ManagerEmail == user.Email
}

func isValidTrackingStatus(status string) bool {
	for _, s := range trackingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func trackingCompletesOrder(status string) bool {
	return status == trackingTerminalStatus
}

// newTrackingID builds a short uppercase tracking reference, e.g.
// TRK-9F1C2A7D4B.
func newTrackingID() string {
	id := uuid.New()
	hexID := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "TRK-" + hexID[:10]
}
