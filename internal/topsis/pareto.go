package topsis

// ParetoFront returns the indices, in row order, of alternatives that no other
// alternative dominates. a dominates b when a is at least as good on every
// criterion, respecting each criterion's direction, and strictly better on one.
// Duplicate rows do not dominate each other.
func ParetoFront(m *Matrix, c Criteria) ([]int, error) {
	if err := checkInputs(m, c); err != nil {
		return nil, err
	}

	front := make([]int, 0, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		dominated := false
		for j := 0; j < m.Rows(); j++ {
			if i != j && dominates(m, c, j, i) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, i)
		}
	}
	return front, nil
}

func dominates(m *Matrix, c Criteria, a, b int) bool {
	better := false
	for j := 0; j < m.Cols(); j++ {
		va, vb := m.At(a, j), m.At(b, j)
		if !c.At(j).IsBenefit() {
			va, vb = -va, -vb
		}
		if va < vb {
			return false
		}
		if va > vb {
			better = true
		}
	}
	return better
}
