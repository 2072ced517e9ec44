package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCDJSONLayout(t *testing.T) {
	m := &ModelData{
		Atoms: []Atom{
			{Serial: 10, Element: "C", Positions: [3]float64{1, 2, 3}},
			{Serial: 11, Element: "O", Positions: [3]float64{4, 5, 6}},
		},
		Bonds: []Bond{{Atom1: 0, Atom2: 1, Order: 2}},
	}

	data, err := EncodeCDJSON(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":[{"a":[{"x":1,"y":2,"z":3,"l":"C"},{"x":4,"y":5,"z":6,"l":"O"}],"b":[{"b":0,"e":1,"o":2}]}]}`, string(data))

	atoms, bonds, err := DecodeCDJSON(data)
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, WireAtom{Index: 1, Position: [3]float64{4, 5, 6}, Element: "O"}, atoms[1])
	assert.Equal(t, []WireBond{{Begin: 0, End: 1, Order: 2}}, bonds)
}

func TestEncodeCDJSONEmpty(t *testing.T) {
	data, err := EncodeCDJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":[{"a":[],"b":[]}]}`, string(data))
}

func TestDecodeCDJSONRejectsDanglingBond(t *testing.T) {
	_, _, err := DecodeCDJSON([]byte(`{"m":[{"a":[{"x":0,"y":0,"z":0}],"b":[{"b":0,"e":3,"o":1}]}]}`))
	assert.Error(t, err)

	_, _, err = DecodeCDJSON([]byte(`not json`))
	assert.Error(t, err)
}
