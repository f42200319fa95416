package mainloop

import (
	"testing"

	"github.com/bnema/popframe/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestCoalescer_MergesBurstIntoSingleFrame(t *testing.T) {
	sched := scheduler.NewManual()
	c := NewCoalescer(sched)

	value := 0
	for i := 1; i <= 5; i++ {
		v := i
		c.Post("window-resize", func() { value = v })
	}

	assert.Equal(t, 1, sched.PendingFrames())
	assert.True(t, c.Pending("window-resize"))

	sched.Flush()

	assert.Equal(t, 5, value)
	assert.False(t, c.Pending("window-resize"))
}

func TestCoalescer_KeysAreIndependent(t *testing.T) {
	sched := scheduler.NewManual()
	c := NewCoalescer(sched)

	var got []string
	c.Post("a", func() { got = append(got, "a") })
	c.Post("b", func() { got = append(got, "b") })
	sched.Flush()

	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestCoalescer_DropsWorkAfterDestroy(t *testing.T) {
	sched := scheduler.NewManual()
	c := NewCoalescer(sched)

	ran := false
	c.Post("window-resize", func() { ran = true })
	c.Destroy()
	sched.Flush()
	assert.False(t, ran)

	c.Post("window-resize", func() { ran = true })
	assert.Zero(t, sched.PendingFrames())
}

func TestCoalescer_PostAfterRunSchedulesAgain(t *testing.T) {
	sched := scheduler.NewManual()
	c := NewCoalescer(sched)

	runs := 0
	c.Post("k", func() { runs++ })
	sched.Flush()
	c.Post("k", func() { runs++ })
	sched.Flush()

	assert.Equal(t, 2, runs)
}

func TestNewCoalescer_PanicsOnNilScheduler(t *testing.T) {
	assert.Panics(t, func() { NewCoalescer(nil) })
}
