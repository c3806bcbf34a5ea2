package order

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// MaxQuantity is the largest count a single order line may carry.
const MaxQuantity = 1000

// Item is one ordered line: a dish, a quantity, and the unit price captured
// at order-creation time. Prices are snapshotted into the order so later
// catalog changes never alter existing orders.
//
// Item is an immutable value object; the zero value is invalid.
type Item struct {
	// dishID identifies the ordered dish in the catalog
	dishID kernel.UUID

	// quantity is the ordered count (must be positive)
	quantity int

	// unitPrice is the per-unit price snapshot taken at creation
	unitPrice kernel.Money

	// isConstructed ensures the item was created via NewItem
	isConstructed bool
}

// NewItem creates a validated order line.
//
// Parameters:
//   - dishID: catalog identifier of the dish (must be a valid UUID)
//   - quantity: ordered count (must be within [1, MaxQuantity])
//   - unitPrice: price snapshot for one unit
//
// Returns the item, or a validation error if the dish id is invalid or the
// quantity is out of bounds.
func NewItem(dishID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := dishID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 || quantity > MaxQuantity {
		return Item{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}

	return Item{
		dishID:        dishID,
		quantity:      quantity,
		unitPrice:     unitPrice,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// DishID returns the catalog identifier of the ordered dish.
func (i Item) DishID() kernel.UUID {
	return i.dishID
}

// Quantity returns the ordered count.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the per-unit price snapshot.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Total returns quantity × unit price.
func (i Item) Total() kernel.Money {
	total, err := i.unitPrice.MulInt(i.quantity)
	if err != nil {
		// quantity was validated positive at construction
		return kernel.Money{}
	}
	return total
}
