package tech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	got, ok := Lookup("Go")
	assert.True(t, ok)
	assert.Equal(t, "Go", got.Title)
	assert.Equal(t, "text-ctp-blue", got.Color)

	got, ok = Lookup("cobol")
	assert.False(t, ok)
	assert.Equal(t, "cobol", got.Title)
	assert.Empty(t, got.Icon)
}

func TestAllKeepsOrder(t *testing.T) {
	all := All()
	assert.Equal(t, "javascript", all[0].Slug)
	assert.Len(t, all, len(table))

	all[0].Title = "changed"
	assert.Equal(t, "JavaScript", All()[0].Title)
}

func TestNormalize(t *testing.T) {
	in := []string{"Go", "Square API", "square api", "Stripe"}
	assert.Equal(t, []string{"Go", "Square", "Square", "Stripe"}, Normalize(in))
	assert.Equal(t, "Square API", in[1])
	assert.Empty(t, Normalize(nil))
}
