package courier

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrCourierAtCapacity is returned when reserving a slot on a courier whose
	// active orders already fill the capacity.
	ErrCourierAtCapacity = errors.New("courier is at capacity")
	// ErrCourierOffDuty is returned when reserving a slot on a courier that is off duty.
	ErrCourierOffDuty = errors.New("courier is off duty")
	// ErrNoActiveOrders is returned when releasing a slot on a courier with no active orders.
	ErrNoActiveOrders = errors.New("courier has no active orders")
)

// Courier represents a delivery courier in the system.
// It is an aggregate root that manages courier identity, position on the
// delivery grid and the number of orders the courier is carrying at once.
//
// Key responsibilities:
//   - Managing courier identity (ID, name)
//   - Tracking position for distance-based dispatch ranking
//   - Enforcing the concurrent order capacity through reserve/release
//   - Tracking duty status so off-duty couriers never receive work
//
// Business rules:
//   - Courier must have a valid UUID, non-empty name, and positive capacity
//   - A slot can be reserved only while on duty and below capacity
//   - Active orders never go negative
//
// Example usage:
//
//	location, _ := kernel.NewLocation(1, 1)
//	courier, err := NewCourier(kernel.NewUUID(), "John Doe", 2, location)
//	if err != nil {
//	    // Handle construction error
//	}
//	// Courier is on duty and ready to receive assignments
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// capacity is the maximum number of orders carried at once
	capacity int
	// activeOrders is the number of orders currently assigned
	activeOrders int
	// onDuty indicates whether the courier accepts new assignments
	onDuty bool
	// location is the current position of the courier on the delivery grid
	location kernel.Location
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified parameters.
// This is the only way to create a fresh Courier instance.
//
// New couriers start on duty with no active orders.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - capacity: Maximum concurrent orders (must be positive)
//   - location: Initial position on the delivery grid (must be valid location)
//
// Returns:
//   - *Courier: A fully initialized courier ready for assignments
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
//
// Example:
//
//	location, _ := kernel.NewLocation(5, 7)
//	courier, err := NewCourier(kernel.NewUUID(), "Alice", 2, location)
//	if err != nil {
//	    log.Fatal("Failed to create courier:", err)
//	}
//	fmt.Printf("Created courier: %s at %s", courier.Name(), courier.Location())
func NewCourier(id kernel.UUID, name string, capacity int, location kernel.Location) (*Courier, error) {
	courier := &Courier{
		guard:  guard.NewConstructorGuard(),
		onDuty: true,
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setCapacity(capacity),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier which creates fresh on-duty couriers, this constructor
// restores a courier to its previously persisted state, including active
// order count and duty status.
//
// Parameters:
//   - id: Unique identifier for the courier
//   - name: Human-readable courier name
//   - capacity: Maximum concurrent orders
//   - activeOrders: Current number of assigned orders
//   - onDuty: Whether the courier accepts new assignments
//   - location: Current position on the delivery grid
//
// Returns:
//   - *Courier: Restored courier aggregate
//   - error: Validation error if any parameter is invalid
//
// Business rules:
//   - Active orders must lie within [0, capacity]
func RestoreCourier(
	id kernel.UUID,
	name string,
	capacity int,
	activeOrders int,
	onDuty bool,
	location kernel.Location,
) (*Courier, error) {
	courier := &Courier{
		guard:  guard.NewConstructorGuard(),
		onDuty: onDuty,
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setCapacity(capacity),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	if activeOrders < 0 || activeOrders > capacity {
		return nil, errs.NewValueIsOutOfRangeError("activeOrders", activeOrders, 0, capacity)
	}
	courier.activeOrders = activeOrders

	return courier, nil
}

// IsEqual compares two couriers for equality based on their unique identifiers.
// Two couriers are considered equal if they have the same ID, regardless of other attributes.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed using a constructor.
// The zero value of Courier is invalid and will fail this validation.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Capacity returns the maximum number of orders the courier carries at once.
func (c *Courier) Capacity() int {
	return c.capacity
}

// ActiveOrders returns the number of orders currently assigned to the courier.
func (c *Courier) ActiveOrders() int {
	return c.activeOrders
}

// OnDuty reports whether the courier accepts new assignments.
func (c *Courier) OnDuty() bool {
	return c.onDuty
}

// Location returns the current position of the courier on the delivery grid.
func (c *Courier) Location() kernel.Location {
	return c.location
}

// IsAvailable reports whether the courier can take one more order:
// on duty with active orders strictly below capacity.
func (c *Courier) IsAvailable() bool {
	return c.onDuty && c.activeOrders < c.capacity
}

// SetOnDuty switches the courier's duty status. Going off duty does not
// affect orders already assigned; it only stops new assignments.
func (c *Courier) SetOnDuty(onDuty bool) {
	c.onDuty = onDuty
}

// SetLocation updates the courier's position on the delivery grid.
func (c *Courier) SetLocation(location kernel.Location) error {
	return c.setLocation(location)
}

// Reserve claims one order slot on the courier.
// It fails with ErrCourierOffDuty if the courier is off duty and with
// ErrCourierAtCapacity if active orders already fill the capacity.
//
// Reserve only mutates the aggregate. Callers that need the check and the
// increment to be atomic across goroutines must serialize access, which the
// courier directory does.
func (c *Courier) Reserve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.onDuty {
		return ErrCourierOffDuty
	}
	if c.activeOrders >= c.capacity {
		return ErrCourierAtCapacity
	}

	c.activeOrders++
	return nil
}

// Release frees one order slot after a delivery completes or the order is
// cancelled. It fails with ErrNoActiveOrders if no slot is held.
func (c *Courier) Release() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.activeOrders == 0 {
		return ErrNoActiveOrders
	}

	c.activeOrders--
	return nil
}

// DistanceTo returns the Manhattan distance from the courier's current
// position to the target location.
func (c *Courier) DistanceTo(target kernel.Location) (int, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	return c.location.Distance(target)
}

// setID sets the courier's unique identifier with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setName sets the courier's name with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

// setCapacity sets the courier's order capacity with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidError("capacity")
	}

	c.capacity = capacity
	return nil
}

// setLocation sets the courier's current location with validation.
func (c *Courier) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
