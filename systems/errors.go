package systems

import "errors"

// Construction errors. A world that fails with any of these never runs a tick.
var (
	ErrConfiguration   = errors.New("invalid world configuration")
	ErrCellOccupied    = errors.New("cell already holds vegetation or a shelter")
	ErrShelterBinding  = errors.New("shelter bound to the wrong cell")
	ErrInvalidQuantity = errors.New("vegetation quantity out of tier bounds")
)
