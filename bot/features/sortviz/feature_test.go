package sortviz

import (
	"slices"
	"testing"

	"reiatsu/game/sorting"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFrames(t *testing.T) {
	steps := make([]sorting.Step, 100)
	for idx := range steps {
		steps[idx] = sorting.Step{Values: []int{idx}}
	}

	frames := sampleFrames(steps, 10)
	require.Len(t, frames, 10)
	assert.Equal(t, []int{9}, frames[0].Values)
	assert.Equal(t, []int{99}, frames[9].Values)

	short := steps[:5]
	assert.Len(t, sampleFrames(short, 10), 5)
}

func TestCollectEndsSorted(t *testing.T) {
	values := []int{5, 3, 1, 4, 2}
	for _, name := range sorting.Names() {
		t.Run(name, func(t *testing.T) {
			steps := collect(sorting.Algorithms[name], values)
			require.NotEmpty(t, steps)

			last := steps[len(steps)-1].Values
			if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, last); diff != "" {
				t.Errorf("final frame mismatch (-want +got):\n%s", diff)
			}
		})
	}
	assert.True(t, slices.Equal([]int{5, 3, 1, 4, 2}, values))
}

func TestRenderBars(t *testing.T) {
	out := renderBars(sorting.Step{Values: []int{2, 1}, Highlight: []int{1}})
	assert.Equal(t, "` 2` 🟦🟦\n` 1` 🟥\n", out)
}

func TestBuildFrameEmbed(t *testing.T) {
	embed := buildFrameEmbed("quick", sorting.Step{Values: []int{1}}, 3, 7)
	assert.Equal(t, "📊 Quick sort", embed.Title)
	assert.Equal(t, "Frame 3/7", embed.Footer.Text)
}
