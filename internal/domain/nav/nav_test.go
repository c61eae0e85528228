package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultItems_Order(t *testing.T) {
	items := DefaultItems()
	require.Len(t, items, 4)
	assert.Equal(t, []Item{
		{Title: "Home", URL: "/"},
		{Title: "About", URL: "/about"},
		{Title: "Shop", URL: "/shop"},
		{Title: "Contact", URL: "/contact"},
	}, items)
}

func TestDefaultItems_ReturnsCopy(t *testing.T) {
	items := DefaultItems()
	items[0].Title = "mutated"
	assert.Equal(t, "Home", DefaultItems()[0].Title)
}

func TestIsActive_ExactMatchOnly(t *testing.T) {
	about := Item{Title: "About", URL: "/about"}
	tests := []struct {
		path string
		want bool
	}{
		{path: "/about", want: true},
		{path: "/about/", want: false},
		{path: "/about/team", want: false},
		{path: "/About", want: false},
		{path: "/", want: false},
		{path: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(about, tt.path))
		})
	}
}

func TestLinks(t *testing.T) {
	items := []Item{{Title: "Home", URL: "/"}, {Title: "About", URL: "/about"}}

	links := Links(items, "/about")

	require.Len(t, links, 2)
	assert.Equal(t, "Home", links[0].Title)
	assert.False(t, links[0].Active)
	assert.Equal(t, "About", links[1].Title)
	assert.True(t, links[1].Active)
}

func TestLinks_Empty(t *testing.T) {
	assert.Empty(t, Links(nil, "/"))
}

func TestLinks_DuplicatesBothActive(t *testing.T) {
	items := []Item{{Title: "Shop", URL: "/shop"}, {Title: "Store", URL: "/shop"}}
	links := Links(items, "/shop")
	assert.True(t, links[0].Active)
	assert.True(t, links[1].Active)
}
