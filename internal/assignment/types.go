// Package assignment computes a one-to-one assignment of people to projects
// that minimizes the total rank the people gave to the projects they receive.
//
// The package is pure: it never touches storage. Callers hand it an immutable
// Snapshot and persist the returned Result themselves.
//
// The pipeline has three stages:
//
//   - BuildCostMatrix turns sparse (project, person, rank) triples into a
//     dense square matrix, padding the smaller side with a fill value.
//   - Solve runs the Hungarian (Kuhn–Munkres) algorithm and returns the
//     lexicographically smallest matching among all cost-minimal ones.
//   - Apply maps the matching back to project and person identifiers.
//
// Compute chains the three stages.
package assignment

// ProjectID identifies a project.
type ProjectID int64

// PersonID identifies a person.
type PersonID string

// Project is a project as seen by the engine.
type Project struct {
	ID   ProjectID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Person is a person as seen by the engine.
type Person struct {
	ID   PersonID `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
}

// Preference is one stated rank. Smaller ranks are preferred.
type Preference struct {
	ProjectID ProjectID `json:"project_id" yaml:"project_id"`
	PersonID  PersonID  `json:"person_id" yaml:"person_id"`
	Rank      int       `json:"rank" yaml:"rank"`
}

// Snapshot is the input of one computation.
type Snapshot struct {
	Projects    []Project    `json:"projects" yaml:"projects"`
	People      []Person     `json:"people" yaml:"people"`
	Preferences []Preference `json:"preferences" yaml:"preferences"`
}

// Pair is one (row, col) cell of a matching.
type Pair struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Matching is a permutation expressed as n pairs sorted by row.
type Matching []Pair

// Result is the outcome of Compute.
//
// Assignments has one entry per project that had at least one preference;
// a nil value means the project received nobody.
type Result struct {
	Assignments map[ProjectID]*PersonID `json:"assignments"`
	Projects    []ProjectID             `json:"projects"`
	People      []PersonID              `json:"people"`
	MatrixSize  int                     `json:"matrix_size"`
	FillValue   int                     `json:"fill_value"`
	TotalCost   int                     `json:"total_cost"`
	RealCost    int                     `json:"real_cost"`
}

// AssignedCount returns how many projects received a person.
func (r Result) AssignedCount() int {
	n := 0
	for _, p := range r.Assignments {
		if p != nil {
			n++
		}
	}
	return n
}
