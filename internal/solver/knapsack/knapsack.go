// Package knapsack specializes branch-and-bound for the 0-1 knapsack shape:
// MAX, exactly one <=-constraint, every variable binary.
package knapsack

import (
	"fmt"
	"sort"

	"lpdss/internal/solver/model"
)

// Applicable reports whether m has the knapsack shape.
func Applicable(m *model.Model) bool {
	if m.Direction != model.Max {
		return false
	}
	if len(m.Constraints) != 1 || m.Constraints[0].Rel != model.LE {
		return false
	}
	for _, v := range m.Variables {
		if v.Sign != model.Binary {
			return false
		}
	}
	return true
}

// Result is the outcome of the knapsack specialization.
type Result struct {
	Success   bool
	Objective float64
	X         []float64 // aligned with original variable order
	Log       []string
}

type item struct {
	idx    int
	value  float64
	weight float64
	ratio  float64
}

// assignment is the partial 0/1 decision along one DFS path: 0 = unassigned,
// 1 = fixed-in, -1 = fixed-out, indexed by original variable index.
type assignment []int8

// Solve sorts by value/weight ratio descending, branches on the first
// fractional item from a greedy fractional-fill bound, and runs a DFS
// updating a global incumbent.
func Solve(m *model.Model) *Result {
	n := m.NumVars()
	values := make([]float64, n)
	for i, v := range m.Variables {
		values[i] = v.Coeff
	}
	weights := m.Constraints[0].Coeffs
	capacity := m.Constraints[0].RHS

	items := make([]item, n)
	for i := 0; i < n; i++ {
		ratio := 0.0
		if weights[i] != 0 {
			ratio = values[i] / weights[i]
		}
		items[i] = item{idx: i, value: values[i], weight: weights[i], ratio: ratio}
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].ratio > items[b].ratio
	})

	var log []string
	log = append(log, "ratio table (sorted by value/weight descending):")
	for _, it := range items {
		log = append(log, fmt.Sprintf("  x%d: value=%s weight=%s ratio=%s", it.idx+1,
			formatF(it.value), formatF(it.weight), formatF(it.ratio)))
	}

	best := make([]int8, n)
	bestValue := -1.0

	var dfs func(fixed assignment, depth int)
	dfs = func(fixed assignment, depth int) {
		bound, firstFractional, fracOK := fractionalBound(items, weights, capacity, fixed)
		if bound <= bestValue {
			log = append(log, fmt.Sprintf("  prune: bound %s <= incumbent %s", formatF(bound), formatF(bestValue)))
			return
		}
		if !fracOK {
			// every item resolved (integer bound): candidate leaf.
			val := usedValue(values, fixed)
			if val > bestValue {
				bestValue = val
				copy(best, fixed)
				log = append(log, fmt.Sprintf("  leaf: integer bound reached, value=%s (new incumbent)", formatF(val)))
			}
			return
		}

		branchIdx := items[firstFractional].idx
		log = append(log, fmt.Sprintf("  branch on x%d (depth %d): bound=%s", branchIdx+1, depth, formatF(bound)))

		withIt := append(assignment(nil), fixed...)
		withIt[branchIdx] = 1
		dfs(withIt, depth+1)

		withoutIt := append(assignment(nil), fixed...)
		withoutIt[branchIdx] = -1
		dfs(withoutIt, depth+1)
	}

	dfs(make(assignment, n), 0)

	x := make([]float64, n)
	for i, v := range best {
		if v == 1 {
			x[i] = 1
		}
	}
	obj := usedValueFloat(values, x)

	return &Result{Success: true, Objective: obj, X: x, Log: log}
}

// fractionalBound computes the greedy fractional upper bound for a partial
// assignment: fill remaining capacity in ratio order over unfixed items
// (respecting items already fixed in or out), permitting one final
// fractional item. It returns the bound, the index (into items) of the
// first item that had to be taken fractionally, and whether such an item
// exists (false means the bound itself is an integer candidate).
func fractionalBound(items []item, weights []float64, capacity float64, fixed assignment) (bound float64, firstFractional int, hasFractional bool) {
	remaining := capacity
	for i, it := range items {
		switch fixed[it.idx] {
		case 1:
			remaining -= it.weight
			bound += it.value
		case -1:
			continue
		default:
			if remaining <= 0 {
				continue
			}
			if it.weight <= remaining {
				remaining -= it.weight
				bound += it.value
			} else {
				frac := remaining / it.weight
				bound += frac * it.value
				remaining = 0
				return bound, i, true
			}
		}
	}
	return bound, 0, false
}

func usedValue(values []float64, fixed assignment) float64 {
	var sum float64
	for i, v := range fixed {
		if v == 1 {
			sum += values[i]
		}
	}
	return sum
}

func usedValueFloat(values []float64, x []float64) float64 {
	var sum float64
	for i, v := range x {
		sum += values[i] * v
	}
	return sum
}

func formatF(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
