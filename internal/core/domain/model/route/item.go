package route

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"delivery/internal/pkg/errs"
)

// Item is one line of the order as it was when the route was created.
type Item struct {
	name     string
	quantity int
	price    float64
}

func NewItem(name string, quantity int, price float64) (Item, error) {
	var errList []error
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("item.name"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"item.quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"item.price", fmt.Errorf("%v is not a valid price", price)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{name: strings.TrimSpace(name), quantity: quantity, price: price}, nil
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) Price() float64 {
	return i.price
}
