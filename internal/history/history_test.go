package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	h := New(0)

	line, ok := h.Submit("SELECT 1;  \n")
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1;", line)

	line, ok = h.Submit("SELECT 1;")
	assert.False(t, ok, "duplicate of newest entry is not recorded")
	assert.Equal(t, "SELECT 1;", line)

	_, ok = h.Submit("   ")
	assert.False(t, ok)

	_, ok = h.Submit("SELECT 2")
	assert.True(t, ok)
	_, ok = h.Submit("SELECT 1;")
	assert.True(t, ok, "only the newest entry is compared")

	assert.Equal(t, []string{"SELECT 1;", "SELECT 2", "SELECT 1;"}, h.Entries())
	assert.Equal(t, h.Len(), h.Index())
}

func TestSubmit_Evicts(t *testing.T) {
	h := New(3)
	for i := range 5 {
		h.Submit(fmt.Sprintf("q%d", i))
	}
	assert.Equal(t, []string{"q2", "q3", "q4"}, h.Entries())
	assert.Equal(t, 3, h.Index())
}

func TestBack_AfterSubmitYieldsNewest(t *testing.T) {
	h := New(10)
	h.Submit("first")
	h.Submit("second")

	got, ok := h.Back("")
	require.True(t, ok)
	assert.Equal(t, "second", got)

	got, ok = h.Back("second")
	require.True(t, ok)
	assert.Equal(t, "first", got)

	_, ok = h.Back("first")
	assert.False(t, ok, "no entry older than the oldest")
	assert.Equal(t, 0, h.Index())
}

func TestNavigation_PreservesDraft(t *testing.T) {
	h := New(10)
	h.Submit("SELECT * FROM t")

	got, ok := h.Back("SELECT coun")
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM t", got)
	assert.True(t, h.Browsing())

	got, ok = h.Forward(got)
	require.True(t, ok)
	assert.Equal(t, "SELECT coun", got)
	assert.False(t, h.Browsing())

	_, ok = h.Forward(got)
	assert.False(t, ok, "forward at the draft is a no-op")
}

func TestNavigation_EditsAreNonDestructive(t *testing.T) {
	h := New(10)
	h.Submit("a")
	h.Submit("b")

	got, _ := h.Back("draft")
	assert.Equal(t, "b", got)

	// edit the browsed entry and move away
	got, _ = h.Back("b edited")
	assert.Equal(t, "a", got)

	got, _ = h.Forward(got)
	assert.Equal(t, "b edited", got, "edit is kept while browsing")

	assert.Equal(t, []string{"a", "b"}, h.Entries(), "stored entries are never rewritten")

	h.Submit("c")
	got, _ = h.Back("")
	assert.Equal(t, "c", got)
	got, _ = h.Back(got)
	assert.Equal(t, "b", got, "overlay is discarded on submit")
}

func TestNavigation_Empty(t *testing.T) {
	h := New(10)
	_, ok := h.Back("x")
	assert.False(t, ok)
	_, ok = h.Forward("x")
	assert.False(t, ok)
}
