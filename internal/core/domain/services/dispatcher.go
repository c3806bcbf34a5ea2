package services

import (
	"errors"
	"sort"

	"marketplace/internal/core/domain/model/kernel"
)

// ErrNoCourierAvailable is returned when no courier can take the order.
// This occurs when every registered courier is off duty, at capacity, or
// lost the race for its last free slot to a concurrent dispatch.
var ErrNoCourierAvailable = errors.New("no courier available")

// CourierPool is the slice of the courier directory the dispatcher needs:
// a snapshot of available couriers and an atomic slot reservation.
type CourierPool interface {
	Available() []CourierView
	Reserve(id kernel.UUID) error
}

// Dispatcher is a domain service that picks the best courier for an order
// ready for pickup.
//
// Selection algorithm:
//   - Rank available couriers by Manhattan distance to the pickup location
//   - Break distance ties by fewer active orders, then by ID
//   - Walk the ranking, reserving the first courier whose slot claim succeeds
//
// A failed reservation means a concurrent dispatch took the courier's last
// slot between the snapshot and the claim; the dispatcher simply moves on to
// the next candidate.
type Dispatcher struct{}

// NewDispatcher creates a new Dispatcher instance.
func NewDispatcher() Dispatcher {
	return Dispatcher{}
}

// Dispatch selects and reserves a courier for the given pickup location.
//
// Returns the reserved courier's ID, or ErrNoCourierAvailable when no
// candidate could be reserved. On success the caller owns the reserved slot
// and must release it if the assignment is not committed.
func (d Dispatcher) Dispatch(pickup kernel.Location, pool CourierPool) (kernel.UUID, error) {
	if err := pickup.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	ranked, err := d.rank(pickup, pool.Available())
	if err != nil {
		return kernel.UUID{}, err
	}

	for _, candidate := range ranked {
		if err := pool.Reserve(candidate); err != nil {
			continue
		}
		return candidate, nil
	}

	return kernel.UUID{}, ErrNoCourierAvailable
}

type rankedCourier struct {
	id       kernel.UUID
	distance int
	active   int
}

// rank orders the candidates by distance to pickup, ties broken by fewer
// active orders and then by ID for determinism.
func (d Dispatcher) rank(pickup kernel.Location, candidates []CourierView) ([]kernel.UUID, error) {
	ranked := make([]rankedCourier, 0, len(candidates))
	for _, candidate := range candidates {
		distance, err := candidate.Location.Distance(pickup)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedCourier{
			id:       candidate.ID,
			distance: distance,
			active:   candidate.ActiveOrders,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		if ranked[i].active != ranked[j].active {
			return ranked[i].active < ranked[j].active
		}
		return ranked[i].id.String() < ranked[j].id.String()
	})

	ids := make([]kernel.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.id
	}
	return ids, nil
}
