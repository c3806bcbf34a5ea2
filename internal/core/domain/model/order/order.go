package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrItemsAreRequired is returned when an order is created with no items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrTotalsMismatch is returned when subtotal, discount and total do not
	// satisfy total = subtotal - discount (floored at zero).
	ErrTotalsMismatch = errors.New("total must equal subtotal minus discount")
)

// TransitionRecord is one row of an order's append-only transition history.
type TransitionRecord struct {
	Status Status
	At     time.Time
	Note   string
}

// Order is the aggregate root of the order lifecycle. It owns the canonical
// status of one order and is the only place status transitions happen; every
// mutation goes through TransitionTo so the (status, role) table is always
// enforced.
//
// Order invariants:
//   - total = subtotal - discount, discount ≥ 0, total ≥ 0
//   - at least one item, each with positive quantity
//   - courier id is present exactly when the status requires it
//     (out_for_delivery, delivered)
//   - the version counter only moves forward; persistence commits a
//     transition only if the stored version still matches the one the
//     transition was computed from
//   - history gains exactly one record per committed transition
//
// The struct uses private fields; reconstruct persisted orders with
// RestoreOrder, never by direct instantiation.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID identifies the customer who placed the order
	customerID kernel.UUID

	// restaurantID identifies the restaurant preparing the order
	restaurantID kernel.UUID

	// pickup is the restaurant's location, snapshotted at creation;
	// dispatch ranks couriers by distance to it
	pickup kernel.Location

	// delivery is the customer's drop-off location
	delivery kernel.Location

	// items are the ordered lines with unit-price snapshots
	items []Item

	// couponCode is the applied coupon code, empty if none
	couponCode string

	// subtotal, discount and total are the priced amounts
	subtotal kernel.Money
	discount kernel.Money
	total    kernel.Money

	// status is the current lifecycle state
	status Status

	// courierID is the assigned courier (nil if unassigned)
	courierID *kernel.UUID

	// version is the optimistic-concurrency counter as read from storage
	version int64

	// history is the append-only list of committed transitions
	history []TransitionRecord

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status.
//
// The amounts must already be priced: total must equal subtotal minus
// discount (floored at zero), which is exactly what the pricing service
// produces. The initial history record carries the creation time.
//
// Parameters:
//   - id, customerID, restaurantID: valid UUIDs
//   - pickup, delivery: validated locations (restaurant and drop-off)
//   - items: at least one validated item
//   - couponCode: applied coupon code, or "" for none
//   - subtotal, discount, total: priced amounts satisfying the invariant
//   - now: creation timestamp for the initial history record
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.Location,
	delivery kernel.Location,
	items []Item,
	couponCode string,
	subtotal kernel.Money,
	discount kernel.Money,
	total kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setPickup(pickup),
		o.setDelivery(delivery),
		o.setItems(items),
		o.setAmounts(subtotal, discount, total),
	); err != nil {
		return nil, err
	}

	o.couponCode = couponCode
	o.history = []TransitionRecord{{Status: Pending, At: now, Note: "order received"}}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// preserving its status, courier assignment, version and history.
// All invariants are re-validated, so corrupt rows surface as errors here
// rather than as broken behavior later.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.Location,
	delivery kernel.Location,
	items []Item,
	couponCode string,
	subtotal kernel.Money,
	discount kernel.Money,
	total kernel.Money,
	status Status,
	courierID *kernel.UUID,
	version int64,
	history []TransitionRecord,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setPickup(pickup),
		o.setDelivery(delivery),
		o.setItems(items),
		o.setAmounts(subtotal, discount, total),
		status.Validate(),
		status.ValidateCanHaveCourier(courierID != nil),
	); err != nil {
		return nil, err
	}

	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause(
			"order", fmt.Errorf("%d is not a valid version", version))
	}

	o.couponCode = couponCode
	o.status = status
	o.courierID = courierID
	o.version = version
	o.history = append([]TransitionRecord(nil), history...)

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the restaurant preparing the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// PickupLocation returns the restaurant's location snapshot.
func (o *Order) PickupLocation() kernel.Location {
	return o.pickup
}

// DeliveryLocation returns the drop-off location.
func (o *Order) DeliveryLocation() kernel.Location {
	return o.delivery
}

// Items returns a copy of the ordered lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// CouponCode returns the applied coupon code, empty if none.
func (o *Order) CouponCode() string {
	return o.couponCode
}

// Subtotal returns the sum of the item totals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Discount returns the applied discount amount.
func (o *Order) Discount() kernel.Money {
	return o.discount
}

// Total returns the payable amount.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil if unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// Version returns the optimistic-concurrency version the order was read at.
func (o *Order) Version() int64 {
	return o.version
}

// History returns a copy of the transition history, oldest first.
func (o *Order) History() []TransitionRecord {
	out := make([]TransitionRecord, len(o.history))
	copy(out, o.history)
	return out
}

// AssignCourier records the courier reserved for this order. It is only
// valid while the order sits in ReadyForPickup: assignment and the
// OutForDelivery transition commit together, and TransitionTo enforces that
// a courier is present before entering OutForDelivery.
//
// Reassignment while still in ReadyForPickup overwrites the previous
// courier; dissolving the old reservation is the caller's responsibility.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.status != ReadyForPickup {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, OutForDelivery)
	}

	o.courierID = &courierID
	return nil
}

// TransitionTo moves the order to target on behalf of role.
//
// The transition is validated against the (status, role) table; failures
// leave the order untouched. Entering Cancelled dissolves any courier
// assignment (callers release the courier's reservation using the id they
// captured before the call). Entering OutForDelivery requires a courier to
// have been assigned first. A history record with the given note is
// appended on success.
//
// TransitionTo does not advance the version: the version moves when the
// transition commits to storage, guarded by a compare-and-set on the value
// returned by Version.
func (o *Order) TransitionTo(target Status, role Role, now time.Time, note string) error {
	if err := o.status.CanTransition(target, role); err != nil {
		return err
	}

	courierID := o.courierID
	if target == Cancelled {
		courierID = nil
	}
	if err := target.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	o.status = target
	o.courierID = courierID
	o.history = append(o.history, TransitionRecord{Status: target, At: now, Note: note})
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantID", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setPickup(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.pickup = location
	return nil
}

func (o *Order) setDelivery(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.delivery = location
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setAmounts(subtotal, discount, total kernel.Money) error {
	if !total.IsEqual(subtotal.Sub(discount)) {
		return ErrTotalsMismatch
	}
	o.subtotal = subtotal
	o.discount = discount
	o.total = total
	return nil
}
