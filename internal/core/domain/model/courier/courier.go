package courier

import (
	"errors"
	"strings"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/guard"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is the aggregate root of the courier directory.
//
// The dispatcher owns the availability flag: it is refreshed after every
// mutation of the courier's routes and equals "zero active routes". The
// calibration is replaced as a whole whenever one of the courier's routes is
// completed.
type Courier struct {
	id          kernel.UUID
	name        string
	location    kernel.Location
	available   bool
	calibration Calibration
	guard       guard.ConstructorGuard
}

// NewCourier registers a courier that has no routes yet, so it starts available
// with the default calibration.
func NewCourier(id kernel.UUID, name string, location kernel.Location) (*Courier, error) {
	courier := &Courier{
		available:   true,
		calibration: DefaultCalibration(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier rehydrates a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name string,
	location kernel.Location,
	available bool,
	calibration Calibration,
) (*Courier, error) {
	courier := &Courier{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setLocation(location),
		courier.setCalibration(calibration),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Location() kernel.Location {
	return c.location
}

func (c *Courier) IsAvailable() bool {
	return c.available
}

func (c *Courier) Calibration() Calibration {
	return c.calibration
}

// MoveTo records a new reported position.
func (c *Courier) MoveTo(location kernel.Location) error {
	return c.setLocation(location)
}

// SyncAvailability sets the availability flag from the number of active routes
// and reports whether the flag drifted.
func (c *Courier) SyncAvailability(activeRoutes int) bool {
	available := activeRoutes == 0
	if c.available == available {
		return false
	}
	c.available = available
	return true
}

// Recalibrate replaces the calibration learned from completed routes.
func (c *Courier) Recalibrate(calibration Calibration) error {
	return c.setCalibration(calibration)
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *Courier) setCalibration(calibration Calibration) error {
	if err := calibration.Validate(); err != nil {
		return err
	}
	c.calibration = calibration
	return nil
}
