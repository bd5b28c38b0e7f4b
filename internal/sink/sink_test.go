package sink

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassSet_AddRemove(t *testing.T) {
	c := NewClassSet("app", "app")
	assert.Equal(t, []string{"app"}, c.Classes())

	c.AddClass("dark")
	c.AddClass("dark")
	assert.Equal(t, []string{"app", "dark"}, c.Classes())
	assert.True(t, c.Has("dark"))

	c.RemoveClass("dark")
	c.RemoveClass("light")
	assert.Equal(t, []string{"app"}, c.Classes())
	assert.False(t, c.Has("dark"))
}

func TestClassSet_RecordsOps(t *testing.T) {
	c := NewClassSet()
	c.AddClass("no-transitions")
	c.RemoveClass("light")
	c.Commit()

	assert.Equal(t, []Op{
		{Kind: OpAdd, Class: "no-transitions"},
		{Kind: OpRemove, Class: "light"},
		{Kind: OpCommit},
	}, c.Ops())
	assert.Equal(t, 1, c.Commits())

	c.ResetOps()
	assert.Empty(t, c.Ops())
	assert.Equal(t, 0, c.Commits())
	assert.True(t, c.Has("no-transitions"))
}

func TestClassSet_ClassesIsACopy(t *testing.T) {
	c := NewClassSet("dark")
	classes := c.Classes()
	classes[0] = "light"
	assert.True(t, c.Has("dark"))
}

func TestClassSet_BatchRecordsOps(t *testing.T) {
	c := NewClassSet("light")
	c.Batch(func(s Sink) {
		s.RemoveClass("light")
		s.AddClass("dark")
		s.Commit()
	})

	assert.Equal(t, []string{"dark"}, c.Classes())
	assert.Equal(t, []Op{
		{Kind: OpRemove, Class: "light"},
		{Kind: OpAdd, Class: "dark"},
		{Kind: OpCommit},
	}, c.Ops())
	assert.Equal(t, 1, c.Commits())
}

func TestClassSet_BatchHidesPartialSwap(t *testing.T) {
	c := NewClassSet("light")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var neither, both int
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			classes := c.Classes()
			light := slices.Contains(classes, "light")
			dark := slices.Contains(classes, "dark")
			if light && dark {
				both++
			}
			if !light && !dark {
				neither++
			}
		}
	}()

	from, to := "light", "dark"
	for i := 0; i < 2000; i++ {
		c.Batch(func(s Sink) {
			s.RemoveClass(from)
			s.AddClass(to)
		})
		from, to = to, from
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, neither)
	assert.Zero(t, both)
}
