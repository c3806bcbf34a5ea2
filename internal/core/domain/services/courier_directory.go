package services

import (
	"sort"
	"sync"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// CourierView is an immutable copy of a courier's dispatch-relevant state,
// safe to read outside the directory lock.
type CourierView struct {
	ID           kernel.UUID
	Name         string
	Location     kernel.Location
	Capacity     int
	ActiveOrders int
	OnDuty       bool
}

// CourierDirectory is the in-process registry of couriers used for dispatch.
//
// The directory owns the courier aggregates it holds: all reads and writes go
// through its mutex, which makes Reserve an atomic check-and-increment. Two
// goroutines racing for a courier's last free slot observe exactly one
// success and one ErrCourierAtCapacity.
//
// The directory is hydrated from the courier repository at startup and kept
// current by the register and availability commands. It is injected into the
// handlers that need it, so tests can run against a directory of their own.
type CourierDirectory struct {
	mu       sync.Mutex
	couriers map[kernel.UUID]*courier.Courier
}

// NewCourierDirectory creates an empty directory.
func NewCourierDirectory() *CourierDirectory {
	return &CourierDirectory{
		couriers: make(map[kernel.UUID]*courier.Courier),
	}
}

// Upsert adds a courier to the directory or replaces the entry with the
// same ID. The directory takes ownership of the aggregate: callers must not
// mutate it afterwards.
func (d *CourierDirectory) Upsert(c *courier.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.couriers[c.ID()] = c
	return nil
}

// Get returns a copy of the courier's current state.
func (d *CourierDirectory) Get(id kernel.UUID) (CourierView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.couriers[id]
	if !ok {
		return CourierView{}, errs.NewObjectNotFoundError("courier", id)
	}
	return view(c), nil
}

// SetOnDuty switches a courier's duty status. Going off duty stops new
// assignments without touching orders already in flight.
func (d *CourierDirectory) SetOnDuty(id kernel.UUID, onDuty bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.couriers[id]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	c.SetOnDuty(onDuty)
	return nil
}

// UpdateLocation moves a courier to a new position on the delivery grid.
func (d *CourierDirectory) UpdateLocation(id kernel.UUID, location kernel.Location) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.couriers[id]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	return c.SetLocation(location)
}

// Reserve atomically claims one order slot on the courier. It fails with
// courier.ErrCourierAtCapacity when the courier is full and with
// courier.ErrCourierOffDuty when the courier is off duty.
func (d *CourierDirectory) Reserve(id kernel.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.couriers[id]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	return c.Reserve()
}

// Release frees one order slot after a delivery completes or an order with
// an assigned courier is cancelled.
func (d *CourierDirectory) Release(id kernel.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.couriers[id]
	if !ok {
		return errs.NewObjectNotFoundError("courier", id)
	}
	return c.Release()
}

// Available returns copies of all couriers that can take one more order,
// sorted by ID for deterministic iteration.
func (d *CourierDirectory) Available() []CourierView {
	d.mu.Lock()
	defer d.mu.Unlock()

	views := make([]CourierView, 0, len(d.couriers))
	for _, c := range d.couriers {
		if c.IsAvailable() {
			views = append(views, view(c))
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID.String() < views[j].ID.String()
	})
	return views
}

// All returns copies of every registered courier, sorted by ID.
func (d *CourierDirectory) All() []CourierView {
	d.mu.Lock()
	defer d.mu.Unlock()

	views := make([]CourierView, 0, len(d.couriers))
	for _, c := range d.couriers {
		views = append(views, view(c))
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID.String() < views[j].ID.String()
	})
	return views
}

func view(c *courier.Courier) CourierView {
	return CourierView{
		ID:           c.ID(),
		Name:         c.Name(),
		Location:     c.Location(),
		Capacity:     c.Capacity(),
		ActiveOrders: c.ActiveOrders(),
		OnDuty:       c.OnDuty(),
	}
}
