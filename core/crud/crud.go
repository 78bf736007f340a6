// Package crud holds the vocabulary shared by the three entity screens:
// the phases of the form lifecycle and the errors common to all of them.
package crud

import "github.com/pkg/errors"

// Phase is where an entity screen currently is in its form lifecycle.
type Phase int

const (
	// Viewing: list loaded, no form input in progress.
	Viewing Phase = iota
	// Composing: create form open, fields empty or partially filled.
	Composing
	// Editing: edit form open, fields pre-filled from a selected row.
	Editing
	// Submitting: a create/update request is in flight.
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Composing:
		return "composing"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "viewing"
	}
}

var (
	// ErrSubmitInFlight rejects a duplicate submission while one is in flight.
	ErrSubmitInFlight = errors.New("Ya hay un envío en curso.")
	// ErrNoPendingDelete means ConfirmDelete ran without a prior RequestDelete.
	ErrNoPendingDelete = errors.New("No hay ninguna eliminación pendiente.")
	// ErrRowNotFound means the selected row is no longer in the fetched list.
	ErrRowNotFound = errors.New("El registro ya no existe en la lista.")
)
