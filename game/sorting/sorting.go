// Package sorting implements classic sorting algorithms as step generators
// for the visualizer. Each generator sorts a copy of its input and yields a
// snapshot after every swap or write.
package sorting

import (
	"iter"
	"slices"
)

// Step is the array state after one swap or write
type Step struct {
	Values    []int
	Highlight []int
}

// Algorithm produces the steps of sorting values
type Algorithm func(values []int) iter.Seq[Step]

// Algorithms maps names to generators
var Algorithms = map[string]Algorithm{
	"bubble":    Bubble,
	"insertion": Insertion,
	"selection": Selection,
	"quick":     Quick,
	"merge":     Merge,
	"heap":      Heap,
	"cocktail":  Cocktail,
}

// Names returns the algorithm names in a stable order
func Names() []string {
	names := make([]string, 0, len(Algorithms))
	for name := range Algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// recorder tracks the working array and forwards snapshots to yield
type recorder struct {
	a       []int
	yield   func(Step) bool
	stopped bool
}

func newRecorder(values []int, yield func(Step) bool) *recorder {
	return &recorder{a: slices.Clone(values), yield: yield}
}

func (r *recorder) emit(highlight ...int) bool {
	if r.stopped {
		return false
	}
	if !r.yield(Step{Values: slices.Clone(r.a), Highlight: highlight}) {
		r.stopped = true
	}
	return !r.stopped
}

func (r *recorder) swap(i, j int) bool {
	r.a[i], r.a[j] = r.a[j], r.a[i]
	return r.emit(i, j)
}

func (r *recorder) write(i, v int) bool {
	r.a[i] = v
	return r.emit(i)
}

// Bubble sort
func Bubble(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		for n := len(r.a); n > 1; n-- {
			swapped := false
			for i := 1; i < n; i++ {
				if r.a[i-1] > r.a[i] {
					if !r.swap(i-1, i) {
						return
					}
					swapped = true
				}
			}
			if !swapped {
				return
			}
		}
	}
}

// Cocktail shaker sort, a bubble sort alternating direction
func Cocktail(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		lo, hi := 0, len(r.a)-1
		for lo < hi {
			swapped := false
			for i := lo; i < hi; i++ {
				if r.a[i] > r.a[i+1] {
					if !r.swap(i, i+1) {
						return
					}
					swapped = true
				}
			}
			hi--
			for i := hi; i > lo; i-- {
				if r.a[i-1] > r.a[i] {
					if !r.swap(i-1, i) {
						return
					}
					swapped = true
				}
			}
			lo++
			if !swapped {
				return
			}
		}
	}
}

// Insertion sort
func Insertion(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		for i := 1; i < len(r.a); i++ {
			for j := i; j > 0 && r.a[j-1] > r.a[j]; j-- {
				if !r.swap(j-1, j) {
					return
				}
			}
		}
	}
}

// Selection sort
func Selection(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		for i := range len(r.a) - 1 {
			smallest := i
			for j := i + 1; j < len(r.a); j++ {
				if r.a[j] < r.a[smallest] {
					smallest = j
				}
			}
			if smallest != i && !r.swap(i, smallest) {
				return
			}
		}
	}
}

// Quick sort with Lomuto partitioning
func Quick(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		var sort func(lo, hi int) bool
		sort = func(lo, hi int) bool {
			if lo >= hi {
				return true
			}
			pivot := r.a[hi]
			p := lo
			for i := lo; i < hi; i++ {
				if r.a[i] < pivot {
					if i != p && !r.swap(i, p) {
						return false
					}
					p++
				}
			}
			if p != hi && !r.swap(p, hi) {
				return false
			}
			return sort(lo, p-1) && sort(p+1, hi)
		}
		sort(0, len(r.a)-1)
	}
}

// Merge sort, top down, writing merged runs back in place
func Merge(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		var sort func(lo, hi int) bool
		sort = func(lo, hi int) bool {
			if hi-lo < 2 {
				return true
			}
			mid := (lo + hi) / 2
			if !sort(lo, mid) || !sort(mid, hi) {
				return false
			}

			merged := make([]int, 0, hi-lo)
			i, j := lo, mid
			for i < mid && j < hi {
				if r.a[i] <= r.a[j] {
					merged = append(merged, r.a[i])
					i++
				} else {
					merged = append(merged, r.a[j])
					j++
				}
			}
			merged = append(merged, r.a[i:mid]...)
			merged = append(merged, r.a[j:hi]...)

			for k, v := range merged {
				if r.a[lo+k] != v && !r.write(lo+k, v) {
					return false
				}
			}
			return true
		}
		sort(0, len(r.a))
	}
}

// Heap sort on a max heap
func Heap(values []int) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		r := newRecorder(values, yield)
		n := len(r.a)

		siftDown := func(root, end int) bool {
			for {
				child := 2*root + 1
				if child >= end {
					return true
				}
				if child+1 < end && r.a[child+1] > r.a[child] {
					child++
				}
				if r.a[root] >= r.a[child] {
					return true
				}
				if !r.swap(root, child) {
					return false
				}
				root = child
			}
		}

		for i := n/2 - 1; i >= 0; i-- {
			if !siftDown(i, n) {
				return
			}
		}
		for end := n - 1; end > 0; end-- {
			if !r.swap(0, end) || !siftDown(0, end) {
				return
			}
		}
	}
}
