// Package valve drives the two-position sampling valve over a board's
// digital output lines.
package valve

import (
	"fmt"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

const portLines = 8

// Controller switches the valve between positions A and B. The drive
// sequence matches the hardware wiring: every line on the port is driven
// high, then the selected position's line is pulled low.
type Controller struct {
	dev     ports.Device
	lineA   int
	lineB   int
	current string
}

func NewController(dev ports.Device, lineA, lineB int) (*Controller, error) {
	if lineA == lineB {
		return nil, fmt.Errorf("%w: valve lines A and B must differ", domain.ErrInvalidConfiguration)
	}
	return &Controller{dev: dev, lineA: lineA, lineB: lineB}, nil
}

// PositionA selects position A.
func (c *Controller) PositionA() error {
	if err := c.drive(c.lineA); err != nil {
		return err
	}
	c.current = "A"
	return nil
}

// PositionB selects position B.
func (c *Controller) PositionB() error {
	if err := c.drive(c.lineB); err != nil {
		return err
	}
	c.current = "B"
	return nil
}

// Set selects a position by name.
func (c *Controller) Set(position string) error {
	switch position {
	case "A":
		return c.PositionA()
	case "B":
		return c.PositionB()
	default:
		return fmt.Errorf("%w: valve position must be A or B, got %q",
			domain.ErrInvalidConfiguration, position)
	}
}

// Current reports the last successfully selected position, or "" if none.
func (c *Controller) Current() string { return c.current }

func (c *Controller) drive(active int) error {
	for line := 0; line < portLines; line++ {
		if err := c.dev.WriteDigital(line, true); err != nil {
			return err
		}
	}
	return c.dev.WriteDigital(active, false)
}
