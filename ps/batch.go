package ps

import (
	"strings"

	"github.com/harborne/LagoonDB/core"
)

// Batch accumulates writes and deletes to be committed together. Later
// changes to the same path replace earlier ones. Reads through the batch
// see pending changes before committed state, which gives transactions
// read-your-writes semantics.
type Batch struct {
	p       *Persistence
	order   []string
	pending map[string]Change
}

// NewBatch starts an empty batch against the store.
func (p *Persistence) NewBatch() *Batch {
	return &Batch{
		p:       p,
		pending: make(map[string]Change),
	}
}

func (b *Batch) record(change Change) {
	if _, seen := b.pending[change.Path]; !seen {
		b.order = append(b.order, change.Path)
	}
	b.pending[change.Path] = change
}

// Put stages a file write.
func (b *Batch) Put(path string, data []byte) {
	b.record(Change{Path: path, Data: data})
}

// Delete stages removal of a file or subtree.
func (b *Batch) Delete(path string) {
	b.record(Change{Path: path, Delete: true})
}

// Len returns the number of staged changes.
func (b *Batch) Len() int {
	return len(b.pending)
}

// Get reads a path, honoring staged changes first. A staged delete of the
// path or of any parent directory hides committed content.
func (b *Batch) Get(path string) ([]byte, bool) {
	if change, ok := b.pending[path]; ok {
		if change.Delete {
			return nil, false
		}
		return change.Data, true
	}
	for _, change := range b.pending {
		if change.Delete && strings.HasPrefix(path, change.Path+"/") {
			return nil, false
		}
	}
	return b.p.Get(path)
}

// ListFiles merges committed files under dirPath with staged changes.
func (b *Batch) ListFiles(dirPath string) (map[string][]byte, error) {
	files, err := b.p.ListFiles(dirPath)
	if err != nil {
		return nil, err
	}

	prefix := ""
	if dirPath != "" && dirPath != "." {
		prefix = dirPath + "/"
	}

	for path, change := range b.pending {
		if change.Delete {
			if path == dirPath {
				return map[string][]byte{}, nil
			}
			if !strings.HasPrefix(path, prefix) {
				continue
			}
			rel := strings.TrimPrefix(path, prefix)
			delete(files, rel)
			for name := range files {
				if strings.HasPrefix(name, rel+"/") {
					delete(files, name)
				}
			}
			continue
		}
		if strings.HasPrefix(path, prefix) {
			files[strings.TrimPrefix(path, prefix)] = change.Data
		}
	}

	return files, nil
}

// Commit applies every staged change in submission order as one commit.
// An empty batch still commits, producing an empty transaction marker.
func (b *Batch) Commit(identity core.Identity, message string) (Transaction, error) {
	changes := make([]Change, 0, len(b.order))
	for _, path := range b.order {
		changes = append(changes, b.pending[path])
	}

	txn, err := b.p.Apply(changes, identity, message)
	if err != nil {
		return Transaction{}, err
	}

	b.order = nil
	b.pending = make(map[string]Change)

	return txn, nil
}

// Discard drops all staged changes without committing.
func (b *Batch) Discard() {
	b.order = nil
	b.pending = make(map[string]Change)
}
