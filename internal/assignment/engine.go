package assignment

import (
	"fmt"
	"sort"
)

// Compute runs the whole pipeline on a snapshot.
//
// Only projects and people that appear in at least one preference take part;
// rows follow ascending project id and columns ascending person id, so the
// outcome depends on the snapshot's content and not on slice order.
func Compute(snap Snapshot) (Result, error) {
	projects, people := Eligible(snap)

	m, err := BuildCostMatrix(projects, people, snap.Preferences)
	if err != nil {
		return Result{}, err
	}

	matching, err := SolveMatrix(m)
	if err != nil {
		return Result{}, fmt.Errorf("solve %dx%d matrix: %w", m.Size(), m.Size(), err)
	}

	res := Result{
		Assignments: Apply(matching, projects, people),
		Projects:    projects,
		People:      people,
		MatrixSize:  m.Size(),
		FillValue:   m.Fill,
	}
	for _, pair := range matching {
		c := m.At(pair.Row, pair.Col)
		res.TotalCost += c
		if !m.IsPadding(pair.Row, pair.Col) {
			res.RealCost += c
		}
	}
	return res, nil
}

// Eligible returns the sorted ids of the projects and people that have at
// least one preference. An id named only by a preference and missing from
// the snapshot's entity lists is left out, so BuildCostMatrix rejects it.
func Eligible(snap Snapshot) ([]ProjectID, []PersonID) {
	seenProject := make(map[ProjectID]struct{})
	seenPerson := make(map[PersonID]struct{})
	for _, p := range snap.Preferences {
		seenProject[p.ProjectID] = struct{}{}
		seenPerson[p.PersonID] = struct{}{}
	}

	known := make(map[ProjectID]struct{}, len(snap.Projects))
	for _, p := range snap.Projects {
		known[p.ID] = struct{}{}
	}
	knownPerson := make(map[PersonID]struct{}, len(snap.People))
	for _, p := range snap.People {
		knownPerson[p.ID] = struct{}{}
	}

	projects := make([]ProjectID, 0, len(seenProject))
	for id := range seenProject {
		if _, ok := known[id]; ok {
			projects = append(projects, id)
		}
	}
	people := make([]PersonID, 0, len(seenPerson))
	for id := range seenPerson {
		if _, ok := knownPerson[id]; ok {
			people = append(people, id)
		}
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i] < projects[j] })
	sort.Slice(people, func(i, j int) bool { return people[i] < people[j] })
	return projects, people
}
