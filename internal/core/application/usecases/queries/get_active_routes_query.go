package queries

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrGetActiveRoutesQueryIsNotConstructed = errors.New(
	"GetActiveRoutesQuery must be created via NewGetActiveRoutesQuery constructor",
)

// GetActiveRoutesQuery lists routes that are not done, optionally for a
// single courier.
//
// Example:
//
//	all, _ := NewGetActiveRoutesQuery(nil)
//	mine, _ := NewGetActiveRoutesQuery(&courierID)
type GetActiveRoutesQuery struct {
	courierID *kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetActiveRoutesQuery(courierID *kernel.UUID) (GetActiveRoutesQuery, error) {
	q := GetActiveRoutesQuery{guard: guard.NewConstructorGuard()}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return GetActiveRoutesQuery{}, err
		}
		id := *courierID
		q.courierID = &id
	}
	return q, nil
}

func (q GetActiveRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRoutesQueryIsNotConstructed)
}

// CourierID reports the courier filter, if any.
func (q GetActiveRoutesQuery) CourierID() (kernel.UUID, bool) {
	if q.courierID == nil {
		return kernel.UUID{}, false
	}
	return *q.courierID, true
}
