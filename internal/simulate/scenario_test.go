package simulate_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/simulate"
)

func TestLoad(t *testing.T) {
	sc, err := simulate.Load(filepath.Join("testdata", "hover.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "hover and fade", sc.Name)
	assert.Equal(t, entity.Size{Width: 1000, Height: 800}, sc.Viewport)
	assert.Equal(t, entity.Size{Width: 300, Height: 200}, sc.FrameSize, "default frame size")
	require.Len(t, sc.Targets, 1)
	assert.True(t, sc.Targets[0].TitleBar)
	require.Len(t, sc.Steps, 6)
	assert.Equal(t, 750*time.Millisecond, sc.Steps[1].Wait)
	assert.Equal(t, &entity.Point{X: 60, Y: 310}, sc.Steps[0].At)
	assert.Equal(t, [4]float64{72, 92, 300, 200}, sc.Steps[2].Expect.Rects["fn1"])

	_, err = simulate.Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

func TestParse_Timings(t *testing.T) {
	sc, err := simulate.Parse([]byte(`
viewport: {width: 800, height: 600}
frame_size: {width: 200, height: 100}
tiling_keys: ""
timings:
  trigger_delay: 50ms
targets:
  - id: a
    rect: [0, 0, 10, 10]
`), "inline")
	require.NoError(t, err)

	require.NotNil(t, sc.Timings)
	require.NotNil(t, sc.Timings.TriggerDelay)
	assert.Equal(t, 50*time.Millisecond, *sc.Timings.TriggerDelay)
	assert.Nil(t, sc.Timings.FadeoutDelay)
	require.NotNil(t, sc.TilingKeys)
	assert.Equal(t, entity.Size{Width: 200, Height: 100}, sc.FrameSize)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := simulate.Parse([]byte(`
viewport: {width: 800, height: 600}
targest: []
`), "typo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targest")
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []string
	}{
		{
			name: "bad viewport",
			yaml: `viewport: {width: 0, height: 600}`,
			want: []string{"viewport width and height must be positive"},
		},
		{
			name: "two actions in one step",
			yaml: `
viewport: {width: 800, height: 600}
targets: [{id: a, rect: [0, 0, 10, 10]}]
steps:
  - {enter: a, leave: a}
`,
			want: []string{"steps[0] must set exactly one action (got: enter, leave)"},
		},
		{
			name: "empty step",
			yaml: `
viewport: {width: 800, height: 600}
steps: [{}]
`,
			want: []string{"steps[0] must set exactly one action (got: )"},
		},
		{
			name: "unknown targets",
			yaml: `
viewport: {width: 800, height: 600}
targets: [{id: a, rect: [0, 0, 10, 10], parent: ghost}]
steps:
  - enter: b
  - expect: {spawned: [a, c]}
`,
			want: []string{
				`targets[0].parent unknown target "ghost"`,
				`steps[0].enter unknown target "b"`,
				`steps[1].expect unknown target "c"`,
			},
		},
		{
			name: "duplicate and empty targets",
			yaml: `
viewport: {width: 800, height: 600}
targets:
  - {id: a, rect: [0, 0, 10, 10]}
  - {id: a, rect: [0, 0, 10, 10]}
  - {id: b, rect: [10, 10, 10, 20]}
`,
			want: []string{
				`targets[1].id duplicate "a"`,
				"targets[2].rect must have positive width and height",
			},
		},
		{
			name: "invalid zoom place",
			yaml: `
viewport: {width: 800, height: 600}
targets: [{id: a, rect: [0, 0, 10, 10]}]
steps:
  - zoom: {target: a, place: middle}
`,
			want: []string{`steps[0].zoom.place invalid "middle"`},
		},
		{
			name: "bad tiling keys",
			yaml: `
viewport: {width: 800, height: 600}
tiling_keys: "aa"
`,
			want: []string{"bound twice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := simulate.Parse([]byte(tt.yaml), tt.name)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
