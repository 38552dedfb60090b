package assignment

// CostMatrix is a square cost matrix built from preferences.
//
// Rows 0..Projects-1 are the real projects in the order given to
// BuildCostMatrix and columns 0..People-1 are the real people. Anything past
// those bounds is padding.
type CostMatrix struct {
	cells    [][]int
	Projects int
	People   int
	Fill     int
}

// Size returns n for an n×n matrix.
func (m CostMatrix) Size() int {
	return len(m.cells)
}

// At returns the cost of row i, column j.
func (m CostMatrix) At(i, j int) int {
	return m.cells[i][j]
}

// Rows returns a deep copy of the cells.
func (m CostMatrix) Rows() [][]int {
	return cloneCells(m.cells)
}

// IsPadding reports whether the cell touches a synthetic row or column.
func (m CostMatrix) IsPadding(i, j int) bool {
	return i >= m.Projects || j >= m.People
}

// BuildCostMatrix lays the preferences out as an n×n matrix with
// n = max(len(projects), len(people)).
//
// A real cell holds the rank the person gave the project, or the fill value
// len(projects)+1 when there is none. Padding cells always hold the fill value
// so that padding never beats a real pairing. Either list being empty yields
// an empty matrix.
//
// Every preference is validated before any cell is written: ranks must lie in
// 1..len(projects), both ends must be present in the lists, and a person may
// not use the same rank twice.
func BuildCostMatrix(projects []ProjectID, people []PersonID, prefs []Preference) (CostMatrix, error) {
	p, u := len(projects), len(people)
	fill := p + 1

	rowOf := make(map[ProjectID]int, p)
	for i, id := range projects {
		rowOf[id] = i
	}
	colOf := make(map[PersonID]int, u)
	for j, id := range people {
		colOf[id] = j
	}

	type cell struct{ row, col int }
	ranks := make(map[cell]int, len(prefs))
	usedRank := make(map[PersonID]map[int]ProjectID)

	for _, pref := range prefs {
		row, okRow := rowOf[pref.ProjectID]
		col, okCol := colOf[pref.PersonID]
		switch {
		case !okRow:
			return CostMatrix{}, &UnknownEntityError{Entity: EntityProject, ProjectID: pref.ProjectID, PersonID: pref.PersonID}
		case !okCol:
			return CostMatrix{}, &UnknownEntityError{Entity: EntityPerson, ProjectID: pref.ProjectID, PersonID: pref.PersonID}
		case pref.Rank <= 0:
			return CostMatrix{}, &InvalidRankError{pref.ProjectID, pref.PersonID, pref.Rank, "rank must be a positive integer"}
		case pref.Rank > p:
			return CostMatrix{}, &InvalidRankError{pref.ProjectID, pref.PersonID, pref.Rank, "rank exceeds the number of ranked projects"}
		}

		key := cell{row, col}
		if _, dup := ranks[key]; dup {
			return CostMatrix{}, &InvalidRankError{pref.ProjectID, pref.PersonID, pref.Rank, "project ranked twice by the same person"}
		}
		byRank := usedRank[pref.PersonID]
		if byRank == nil {
			byRank = make(map[int]ProjectID)
			usedRank[pref.PersonID] = byRank
		}
		if other, dup := byRank[pref.Rank]; dup {
			return CostMatrix{}, &DuplicateRankError{
				PersonID: pref.PersonID,
				Rank:     pref.Rank,
				Projects: [2]ProjectID{other, pref.ProjectID},
			}
		}
		byRank[pref.Rank] = pref.ProjectID
		ranks[key] = pref.Rank
	}

	if p == 0 || u == 0 {
		return CostMatrix{cells: [][]int{}, Projects: p, People: u, Fill: fill}, nil
	}

	n := max(p, u)
	cells := make([][]int, n)
	for i := range cells {
		row := make([]int, n)
		for j := range row {
			row[j] = fill
		}
		cells[i] = row
	}
	for key, rank := range ranks {
		cells[key.row][key.col] = rank
	}

	return CostMatrix{cells: cells, Projects: p, People: u, Fill: fill}, nil
}

func cloneCells(cells [][]int) [][]int {
	out := make([][]int, len(cells))
	for i, row := range cells {
		out[i] = append([]int(nil), row...)
	}
	return out
}
