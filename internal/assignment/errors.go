package assignment

import (
	"errors"
	"fmt"
)

// InvalidRankError reports a preference the Builder refuses to place in a matrix.
type InvalidRankError struct {
	ProjectID ProjectID
	PersonID  PersonID
	Rank      int
	Reason    string
}

func (e *InvalidRankError) Error() string {
	return fmt.Sprintf("invalid rank %d for project %d / person %q: %s", e.Rank, e.ProjectID, e.PersonID, e.Reason)
}

// UnknownEntityError reports a preference naming a project or person that is
// not among the entities handed to the Builder. The rank itself may be fine.
type UnknownEntityError struct {
	Entity    string // "project" or "person"
	ProjectID ProjectID
	PersonID  PersonID
}

func (e *UnknownEntityError) Error() string {
	if e.Entity == EntityPerson {
		return fmt.Sprintf("preference for project %d names unknown person %q", e.ProjectID, e.PersonID)
	}
	return fmt.Sprintf("preference of person %q names unknown project %d", e.PersonID, e.ProjectID)
}

const (
	EntityProject = "project"
	EntityPerson  = "person"
)

// DuplicateRankError reports a person using the same rank for two projects.
type DuplicateRankError struct {
	PersonID PersonID
	Rank     int
	Projects [2]ProjectID
}

func (e *DuplicateRankError) Error() string {
	return fmt.Sprintf("person %q uses rank %d for projects %d and %d", e.PersonID, e.Rank, e.Projects[0], e.Projects[1])
}

// DimensionError means the solver was handed a matrix that is not square.
type DimensionError struct {
	Row      int
	Got      int
	Expected int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("cost matrix is not square: row %d has %d columns, expected %d", e.Row, e.Got, e.Expected)
}

// NegativeCostError means the solver found a negative entry.
type NegativeCostError struct {
	Row, Col int
	Value    int
}

func (e *NegativeCostError) Error() string {
	return fmt.Sprintf("cost matrix entry [%d][%d] is negative (%d)", e.Row, e.Col, e.Value)
}

// SolverNonConvergenceError is an internal invariant violation: the augmentation
// loop ran past its budget or reached a state that cannot occur for a valid matrix.
type SolverNonConvergenceError struct {
	Size       int
	Iterations int
	Detail     string
}

func (e *SolverNonConvergenceError) Error() string {
	return fmt.Sprintf("hungarian solver did not converge (n=%d, iterations=%d): %s", e.Size, e.Iterations, e.Detail)
}

// IsInputError reports whether err was caused by the submitted preference data
// rather than by a defect in the engine.
func IsInputError(err error) bool {
	var rankErr *InvalidRankError
	var dupErr *DuplicateRankError
	var entityErr *UnknownEntityError
	return errors.As(err, &rankErr) || errors.As(err, &dupErr) || errors.As(err, &entityErr)
}
