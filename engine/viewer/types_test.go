package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorMatches(t *testing.T) {
	assert.True(t, All().IsAll())
	assert.True(t, All().Matches(99))

	sel := Serials(1, 3)
	assert.False(t, sel.IsAll())
	assert.True(t, sel.Matches(3))
	assert.False(t, sel.Matches(2))
}

func TestStyleCanonicalIsOrderIndependent(t *testing.T) {
	op := 0.6
	a := Style{
		RepresentationStick:  {Color: "#ffffff", Opacity: &op},
		RepresentationSphere: {Scale: 0.3},
	}
	b := Style{
		RepresentationSphere: {Scale: 0.3},
		RepresentationStick:  {Opacity: &op, Color: "#ffffff"},
	}

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, `{"sphere":{"scale":0.3},"stick":{"color":"#ffffff","opacity":0.6}}`, a.Canonical())
	assert.Equal(t, "{}", Style(nil).Canonical())
	assert.Equal(t, []Representation{RepresentationSphere, RepresentationStick}, a.Representations())
}
