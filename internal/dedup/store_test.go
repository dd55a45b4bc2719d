package dedup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldFireList_OncePerList(t *testing.T) {
	s := NewStore()

	assert.True(t, s.ShouldFireList("home-featured"))
	assert.False(t, s.ShouldFireList("home-featured"))
	assert.True(t, s.ShouldFireList("search-results"))
}

func TestShouldFireItem_KeyedByBothComponents(t *testing.T) {
	s := NewStore()

	assert.True(t, s.ShouldFireItem("list-a", "42"))
	assert.False(t, s.ShouldFireItem("list-a", "42"))
	assert.True(t, s.ShouldFireItem("list-b", "42"))
	assert.True(t, s.ShouldFireItem("list-a", "43"))
}

func TestKeySpacesAreDisjoint(t *testing.T) {
	s := NewStore()

	assert.True(t, s.ShouldFireList("x"))
	assert.True(t, s.ShouldFireItem("x", ""))
	lists, items := s.Len()
	assert.Equal(t, 1, lists)
	assert.Equal(t, 1, items)
}

func TestItemKey_EscapesSeparators(t *testing.T) {
	assert.NotEqual(t, ItemKey("a|b", "c"), ItemKey("a", "b|c"))
	assert.Equal(t, "view_item|a|b", ItemKey("a", "b"))
	assert.Equal(t, "view_item_list|a", ListKey("a"))
}

func TestReset_AllowsRefire(t *testing.T) {
	s := NewStore()
	s.ShouldFireList("l1")
	s.ShouldFireItem("l1", "i1")

	s.Reset()

	assert.True(t, s.ShouldFireList("l1"))
	assert.True(t, s.ShouldFireItem("l1", "i1"))
}

func TestShouldFireItem_ConcurrentCallersFireOnce(t *testing.T) {
	s := NewStore()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fired int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ShouldFireItem("l", "i") {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fired)
}
