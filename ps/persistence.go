package ps

import (
	"errors"
	"os"
	"sync"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
)

var (
	ErrNotInitialized = errors.New("persistence layer not initialized")
	ErrNotFound       = errors.New("path not found")
)

// Persistence stores datastore content in a Git object database. Every
// committed batch of changes becomes one Git commit, so the full history
// of the datastore is recoverable.
type Persistence struct {
	repo       *git.Repository
	mu         sync.RWMutex
	memoryMode bool
}

// IsInitialized reports whether the persistence layer has a repository.
func (p *Persistence) IsInitialized() bool {
	return p != nil && p.repo != nil
}

func (p *Persistence) ensureInitialized() error {
	if !p.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

// RLock acquires a read lock for concurrent read operations
func (p *Persistence) RLock() {
	p.mu.RLock()
}

// RUnlock releases the read lock
func (p *Persistence) RUnlock() {
	p.mu.RUnlock()
}

// Lock acquires a write lock for exclusive write operations
func (p *Persistence) Lock() {
	p.mu.Lock()
}

// Unlock releases the write lock
func (p *Persistence) Unlock() {
	p.mu.Unlock()
}

// NewMemoryPersistence creates an ephemeral in-memory store. Intended for
// tests and embedded use where durability is not needed.
func NewMemoryPersistence() (Persistence, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return Persistence{}, err
	}

	return Persistence{
		repo:       repo,
		memoryMode: true,
	}, nil
}

// NewFilePersistence opens (or initializes) a durable store rooted at
// baseDir. The directory is created if it does not exist.
func NewFilePersistence(baseDir string) (Persistence, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return Persistence{}, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return Persistence{}, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository

	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return Persistence{}, err
	}

	return Persistence{
		repo: repo,
	}, nil
}
