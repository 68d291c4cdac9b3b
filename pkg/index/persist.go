package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// blob is the on-disk shape of an index: the segment table, exactly one
// engine representation, and build metadata. Consumers treat the file as
// opaque; this is its logical schema.
type blob struct {
	Engine string
	IDs    []string
	Texts  []string
	Sparse *SparseState
	Dense  *DenseState
	Meta   Meta
}

// Save writes the index blob to path, creating parent directories. The file
// is written to a temp name and renamed so concurrent readers never observe
// a partial blob.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".idx-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	b := blob{
		Engine: string(idx.Engine),
		IDs:    idx.IDs,
		Texts:  idx.Texts,
		Sparse: idx.Sparse,
		Dense:  idx.Dense,
		Meta:   idx.Meta,
	}
	if err := gob.NewEncoder(tmp).Encode(&b); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding index blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp index file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing index blob: %w", err)
	}
	return nil
}

// Load reads an index blob from path. Dense indexes come back without an
// embedder; call AttachEmbedder before searching them.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index blob: %w", err)
	}
	defer f.Close()

	var b blob
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding index blob: %w", err)
	}

	engine, err := ParseEngine(b.Engine)
	if err != nil {
		return nil, err
	}

	return &Index{
		Engine: engine,
		IDs:    b.IDs,
		Texts:  b.Texts,
		Sparse: b.Sparse,
		Dense:  b.Dense,
		Meta:   b.Meta,
	}, nil
}
