package assignment

import "math"

// Solve returns the minimum-cost perfect matching of a square matrix of
// non-negative integers.
//
// The algorithm:
//  1. Subtract each row's minimum from the row.
//  2. Subtract each column's minimum from the column.
//  3. Star zeros greedily, row-major, so that no two stars share a line.
//  4. While fewer than n zeros are starred: cover the starred columns, prime
//     uncovered zeros (row-major, then column-major) and either augment along
//     the prime/star path or cover the primed row and uncover its star's
//     column. When no uncovered zero is left, subtract the smallest uncovered
//     value from the uncovered rows and add it to the covered columns.
//  5. Among the optimal matchings (all of them live on the zeros of the final
//     reduced matrix) pick the lexicographically smallest one.
//
// Every step shifts all permutations' totals by the same amount, so the set
// of optimal permutations never changes. The input is not modified.
//
// Returns:
//   - Matching: n pairs sorted by row; empty for n == 0
//   - error: *DimensionError, *NegativeCostError or *SolverNonConvergenceError
func Solve(cost [][]int) (Matching, error) {
	n := len(cost)
	for i, row := range cost {
		if len(row) != n {
			return nil, &DimensionError{Row: i, Got: len(row), Expected: n}
		}
		for j, v := range row {
			if v < 0 {
				return nil, &NegativeCostError{Row: i, Col: j, Value: v}
			}
		}
	}
	if n == 0 {
		return Matching{}, nil
	}

	s := newMunkres(cost)
	s.reduceRows()
	s.reduceColumns()
	s.starGreedy()
	for s.stars < s.n {
		if err := s.augment(); err != nil {
			return nil, err
		}
	}
	if err := s.canonicalize(); err != nil {
		return nil, err
	}
	return s.matching(), nil
}

// SolveMatrix is Solve for a matrix produced by BuildCostMatrix.
func SolveMatrix(m CostMatrix) (Matching, error) {
	return Solve(m.cells)
}

// TotalCost sums cost over the matching.
func TotalCost(cost [][]int, m Matching) int {
	total := 0
	for _, p := range m {
		total += cost[p.Row][p.Col]
	}
	return total
}

const unbounded = math.MaxInt

// munkres holds the working state of one Solve call.
//
// The reduced value of a cell is c[i][j] - rowOff[i] + colOff[j]. Steps 1
// and 2 write into c directly; the adjustments of step 4 only move the
// offsets so that each one costs O(n).
type munkres struct {
	n      int
	c      [][]int
	rowOff []int
	colOff []int

	starCol  []int // starCol[row]: column of the row's star, -1 if none
	starRow  []int // starRow[col]: row of the column's star, -1 if none
	primeCol []int // primeCol[row]: column of the row's prime, -1 if none

	rowCovered []bool
	colCovered []bool

	stars  int
	steps  int
	budget int
}

func newMunkres(cost [][]int) *munkres {
	n := len(cost)
	s := &munkres{
		n:          n,
		c:          cloneCells(cost),
		rowOff:     make([]int, n),
		colOff:     make([]int, n),
		starCol:    make([]int, n),
		starRow:    make([]int, n),
		primeCol:   make([]int, n),
		rowCovered: make([]bool, n),
		colCovered: make([]bool, n),
		// A phase primes at most n zeros and every adjustment is followed by
		// a prime, so one phase never needs more than 2n+2 steps.
		budget: n * (2*n + 2),
	}
	for i := 0; i < n; i++ {
		s.starCol[i] = -1
		s.starRow[i] = -1
		s.primeCol[i] = -1
	}
	return s
}

func (s *munkres) at(i, j int) int {
	return s.c[i][j] - s.rowOff[i] + s.colOff[j]
}

func (s *munkres) reduceRows() {
	for _, row := range s.c {
		low := row[0]
		for _, v := range row[1:] {
			low = min(low, v)
		}
		for j := range row {
			row[j] -= low
		}
	}
}

func (s *munkres) reduceColumns() {
	for j := 0; j < s.n; j++ {
		low := s.c[0][j]
		for i := 1; i < s.n; i++ {
			low = min(low, s.c[i][j])
		}
		for i := 0; i < s.n; i++ {
			s.c[i][j] -= low
		}
	}
}

func (s *munkres) starGreedy() {
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			if s.c[i][j] == 0 && s.starRow[j] < 0 {
				s.star(i, j)
				break
			}
		}
	}
}

func (s *munkres) star(i, j int) {
	s.starCol[i] = j
	s.starRow[j] = i
	s.stars++
}

// augment runs one phase of step 4 and ends with one more starred zero.
//
// For every uncovered row it tracks the smallest reduced value over the
// uncovered columns (slack) and the first column reaching it, which turns the
// zero search into an O(n) scan.
func (s *munkres) augment() error {
	n := s.n
	for j := 0; j < n; j++ {
		s.colCovered[j] = s.starRow[j] >= 0
	}
	for i := 0; i < n; i++ {
		s.rowCovered[i] = false
		s.primeCol[i] = -1
	}

	slack := make([]int, n)
	slackCol := make([]int, n)
	for i := 0; i < n; i++ {
		slack[i], slackCol[i] = unbounded, -1
		for j := 0; j < n; j++ {
			if s.colCovered[j] {
				continue
			}
			if v := s.at(i, j); v < slack[i] {
				slack[i], slackCol[i] = v, j
			}
		}
	}

	for {
		s.steps++
		if s.steps > s.budget {
			return s.nonConvergence("augmentation budget exhausted")
		}

		row := -1
		for i := 0; i < n; i++ {
			if !s.rowCovered[i] && slack[i] == 0 {
				row = i
				break
			}
		}

		if row < 0 {
			delta := unbounded
			for i := 0; i < n; i++ {
				if !s.rowCovered[i] && slack[i] < delta {
					delta = slack[i]
				}
			}
			if delta == unbounded || delta <= 0 {
				return s.nonConvergence("no positive uncovered minimum")
			}
			for i := 0; i < n; i++ {
				if !s.rowCovered[i] {
					s.rowOff[i] += delta
					slack[i] -= delta
				}
			}
			for j := 0; j < n; j++ {
				if s.colCovered[j] {
					s.colOff[j] += delta
				}
			}
			continue
		}

		col := slackCol[row]
		s.primeCol[row] = col
		starred := s.starCol[row]
		if starred < 0 {
			return s.flipPath(row, col)
		}

		s.rowCovered[row] = true
		s.colCovered[starred] = false
		for i := 0; i < n; i++ {
			if s.rowCovered[i] {
				continue
			}
			v := s.at(i, starred)
			if v < slack[i] || (v == slack[i] && starred < slackCol[i]) {
				slack[i], slackCol[i] = v, starred
			}
		}
	}
}

// flipPath follows prime → star in its column → prime in that row → … and
// swaps the starred and primed zeros along the way.
func (s *munkres) flipPath(row, col int) error {
	path := []Pair{{Row: row, Col: col}}
	for {
		last := path[len(path)-1]
		r := s.starRow[last.Col]
		if r < 0 {
			break
		}
		c := s.primeCol[r]
		if c < 0 {
			return s.nonConvergence("starred row on the path has no prime")
		}
		path = append(path, Pair{Row: r, Col: last.Col}, Pair{Row: r, Col: c})
		if len(path) > 2*s.n+1 {
			return s.nonConvergence("alternating path longer than 2n+1")
		}
	}

	for k := 1; k < len(path); k += 2 {
		s.starCol[path[k].Row] = -1
		s.starRow[path[k].Col] = -1
	}
	for k := 0; k < len(path); k += 2 {
		s.starCol[path[k].Row] = path[k].Col
		s.starRow[path[k].Col] = path[k].Row
	}
	s.stars++
	return nil
}

// canonicalize rewrites the starred matching into the lexicographically
// smallest perfect matching on the zeros of the reduced matrix.
//
// Row i takes the smallest zero column j from which the current owners of
// columns can be shifted, using only rows after i, back to the column row i
// holds now. A reverse search from that column finds every such j at once.
func (s *munkres) canonicalize() error {
	n := s.n
	assigned := append([]int(nil), s.starCol...)
	owner := append([]int(nil), s.starRow...)

	next := make([]int, n)
	reached := make([]bool, n)
	queue := make([]int, 0, n)

	for i := 0; i < n; i++ {
		target := assigned[i]
		for j := range reached {
			reached[j] = false
			next[j] = -1
		}
		reached[target] = true
		queue = append(queue[:0], target)
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			for r := i + 1; r < n; r++ {
				if s.at(r, x) != 0 {
					continue
				}
				c := assigned[r]
				if reached[c] {
					continue
				}
				reached[c] = true
				next[c] = x
				queue = append(queue, c)
			}
		}

		pick := -1
		for j := 0; j < n; j++ {
			if reached[j] && s.at(i, j) == 0 {
				pick = j
				break
			}
		}
		if pick < 0 {
			return s.nonConvergence("assigned cell is not a zero of the reduced matrix")
		}
		if pick == target {
			continue
		}

		chain := []int{pick}
		for c := pick; c != target; {
			c = next[c]
			if c < 0 || len(chain) > n {
				return s.nonConvergence("broken rewiring chain")
			}
			chain = append(chain, c)
		}
		rows := make([]int, len(chain)-1)
		for k := range rows {
			rows[k] = owner[chain[k]]
		}
		for k, r := range rows {
			assigned[r] = chain[k+1]
			owner[chain[k+1]] = r
		}
		assigned[i] = pick
		owner[pick] = i
	}

	copy(s.starCol, assigned)
	copy(s.starRow, owner)
	return nil
}

func (s *munkres) matching() Matching {
	out := make(Matching, s.n)
	for i, j := range s.starCol {
		out[i] = Pair{Row: i, Col: j}
	}
	return out
}

func (s *munkres) nonConvergence(detail string) error {
	return &SolverNonConvergenceError{Size: s.n, Iterations: s.steps, Detail: detail}
}
