package loader

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer/viewertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct{ n int }

func (c *countingCache) Invalidate() { c.n++ }

func model() *molecule.ModelData {
	dx := 0.25
	return &molecule.ModelData{
		Atoms: []molecule.Atom{
			{Serial: 7, Name: "CA", Element: "C", Chain: "A", ResidueIndex: 3, ResidueName: "GLY", Positions: [3]float64{1, 0, 0}, DX: &dx, DY: &dx, DZ: &dx},
			{Serial: 8, Name: "N", Element: "N", Chain: "A", ResidueIndex: 3, ResidueName: "GLY", Positions: [3]float64{0, 1, 0}},
		},
		Bonds: []molecule.Bond{{Atom1: 0, Atom2: 1, Order: 1}},
	}
}

func TestShouldReloadPredicate(t *testing.T) {
	a := model()
	b, err := a.Clone()
	require.NoError(t, err)
	assert.False(t, ShouldReload(a, b))

	b.Atoms[0].Positions[1] = 5
	assert.True(t, ShouldReload(a, b))
}

func TestLoadAnnotatesAtoms(t *testing.T) {
	cache := &countingCache{}
	l := NewLoader(BackendTypeCDJSON, WithInvalidator(cache))
	rec := viewertest.New()

	require.True(t, l.ShouldReload(model()))
	require.NoError(t, l.Load(rec, model()))

	assert.Equal(t, []string{"Clear", "LoadModel"}, rec.Methods())
	assert.Equal(t, 1, cache.n)
	load := rec.Calls[1]
	assert.Equal(t, viewer.FormatJSON, load.Args[1])
	assert.Equal(t, viewer.LoadOptions{KeepHydrogens: true}, load.Args[2])

	atoms := rec.LoadedAtoms()
	require.Len(t, atoms, 2)
	assert.Equal(t, 7, atoms[0].Serial)
	assert.Equal(t, "CA", atoms[0].Name)
	assert.Equal(t, "A", atoms[0].Chain)
	assert.Equal(t, 3, atoms[0].ResidueIndex)
	assert.Equal(t, "GLY", atoms[0].ResidueName)
	require.NotNil(t, atoms[0].DX)
	assert.Equal(t, 0.25, *atoms[0].DX)
	assert.Equal(t, 8, atoms[1].Serial)
	assert.Nil(t, atoms[1].DX)

	assert.False(t, l.ShouldReload(model()))
}

func TestLoadKeepsPrivateSnapshot(t *testing.T) {
	l := NewLoader(BackendTypeCDJSON)
	rec := viewertest.New()

	m := model()
	require.NoError(t, l.Load(rec, m))

	// Mutating the host's model in place must still be detected as a change.
	m.Atoms[1].Positions[2] = 4
	assert.True(t, l.ShouldReload(m))
	assert.Equal(t, 0.0, l.Last().Atoms[1].Positions[2])
}

func TestLoadEmptyModelClearsWithoutLoading(t *testing.T) {
	cache := &countingCache{}
	l := NewLoader(BackendTypeCDJSON, WithInvalidator(cache))
	rec := viewertest.New()

	empty := &molecule.ModelData{Atoms: []molecule.Atom{}, Bonds: []molecule.Bond{}}
	require.True(t, l.ShouldReload(empty))
	require.NoError(t, l.Load(rec, empty))

	assert.Equal(t, []string{"Clear"}, rec.Methods())
	assert.Equal(t, 0, rec.Count("LoadModel"))
	assert.Equal(t, 1, cache.n)
	assert.False(t, l.ShouldReload(&molecule.ModelData{}))
}

func TestLoadViewerFailureIsWrappedAndNotRetried(t *testing.T) {
	l := NewLoader(BackendTypeCDJSON)
	rec := viewertest.New()
	boom := errors.New("parse failure")
	rec.LoadErr = boom

	err := l.Load(rec, model())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, l.ShouldReload(model()))
}
