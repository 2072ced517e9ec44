package loader

import (
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// loaderBackend encodes a model into a format the viewer can load.
type loaderBackend interface {
	// Encode serialises the model. Wire atom i must correspond to m.Atoms[i].
	//
	// Parameters:
	//   - m: the model
	//
	// Returns:
	//   - []byte: the encoded model
	//   - viewer.Format: the format tag passed to LoadModel
	//   - error: error if encoding fails
	Encode(m *molecule.ModelData) ([]byte, viewer.Format, error)
}

// cdjsonLoaderBackend encodes models as ChemDoodle JSON.
type cdjsonLoaderBackend struct{}

var _ loaderBackend = &cdjsonLoaderBackend{}

func (b *cdjsonLoaderBackend) Encode(m *molecule.ModelData) ([]byte, viewer.Format, error) {
	data, err := molecule.EncodeCDJSON(m)
	if err != nil {
		return nil, "", err
	}
	return data, viewer.FormatJSON, nil
}
