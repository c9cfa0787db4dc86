package diag

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"caret/internal/source"
)

// Current schema version - increment when the payload format changes.
const payloadSchemaVersion uint16 = 1

type filePayload struct {
	Path    string
	Content []byte
}

// payload is the on-wire form of a bag plus the sources its spans point
// into, so a decoded bag renders without access to the original files.
type payload struct {
	Version     uint16
	Files       []filePayload
	Diagnostics []Diagnostic
}

// EncodeBag serializes the bag and every file of fs to w. File order is
// preserved so FileIDs stay valid across the round trip.
func EncodeBag(w io.Writer, bag *Bag, fs *source.FileSet) error {
	p := payload{
		Version:     payloadSchemaVersion,
		Diagnostics: bag.Items(),
	}
	for _, f := range fs.Files() {
		p.Files = append(p.Files, filePayload{Path: f.Path, Content: f.Content})
	}
	return msgpack.NewEncoder(w).Encode(&p)
}

// DecodeBag reads a payload written by EncodeBag and rebuilds the bag and a
// FileSet with identical FileIDs.
func DecodeBag(r io.Reader) (*Bag, *source.FileSet, error) {
	var p payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, nil, fmt.Errorf("decode diagnostics payload: %w", err)
	}
	if p.Version != payloadSchemaVersion {
		return nil, nil, fmt.Errorf("unsupported payload version %d (want %d)", p.Version, payloadSchemaVersion)
	}
	fs := source.NewFileSet()
	for _, f := range p.Files {
		fs.AddVirtual(f.Path, f.Content)
	}
	n := len(p.Diagnostics)
	if n == 0 {
		n = 1
	}
	bag := NewBag(n)
	for _, d := range p.Diagnostics {
		bag.Add(d)
	}
	return bag, fs, nil
}
