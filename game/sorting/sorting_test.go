package sorting

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmsSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	inputs := map[string][]int{
		"empty":      {},
		"single":     {4},
		"sorted":     {1, 2, 3, 4, 5},
		"reversed":   {5, 4, 3, 2, 1},
		"duplicates": {3, 1, 3, 2, 1, 3},
		"random":     rng.Perm(20),
	}

	for _, name := range Names() {
		for inputName, input := range inputs {
			t.Run(name+"/"+inputName, func(t *testing.T) {
				original := slices.Clone(input)
				want := slices.Sorted(slices.Values(input))

				last := original
				for step := range Algorithms[name](input) {
					require.Len(t, step.Values, len(input))
					assert.NotEmpty(t, step.Highlight)
					last = step.Values
				}

				if diff := cmp.Diff(want, last); diff != "" && len(want) > 0 {
					t.Errorf("final state mismatch (-want +got):\n%s", diff)
				}
				assert.Equal(t, original, input, "input must not be modified")
			})
		}
	}
}

func TestSortedInputYieldsNothing(t *testing.T) {
	for _, name := range Names() {
		if name == "heap" {
			// building the max heap reorders sorted input
			continue
		}
		steps := 0
		for range Algorithms[name]([]int{1, 2, 3, 4}) {
			steps++
		}
		assert.Zero(t, steps, name)
	}
}

func TestBubbleSteps(t *testing.T) {
	var got [][]int
	for step := range Bubble([]int{3, 1, 2}) {
		got = append(got, step.Values)
	}
	assert.Equal(t, [][]int{{1, 3, 2}, {1, 2, 3}}, got)
}

func TestEarlyStop(t *testing.T) {
	for _, name := range Names() {
		steps := 0
		for range Algorithms[name]([]int{9, 8, 7, 6, 5, 4, 3, 2, 1}) {
			steps++
			if steps == 3 {
				break
			}
		}
		assert.Equal(t, 3, steps, name)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	var steps []Step
	for step := range Bubble([]int{3, 2, 1}) {
		steps = append(steps, step)
	}
	require.NotEmpty(t, steps)
	steps[0].Values[0] = 100
	assert.Equal(t, []int{1, 2, 3}, steps[len(steps)-1].Values)
}
