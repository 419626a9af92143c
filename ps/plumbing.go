package ps

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"

	"github.com/harborne/LagoonDB/core"
)

// Change is a single pending modification to the content tree. A nil Data
// with Delete set removes the entry at Path; the entry may be a file or a
// whole subtree.
type Change struct {
	Path   string
	Data   []byte
	Delete bool
}

// createBlob writes data into the object store without filesystem I/O.
func (p *Persistence) createBlob(data []byte) (plumbing.Hash, error) {
	obj := p.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create blob writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob data: %w", err)
	}
	writer.Close()

	hash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}

	return hash, nil
}

// headTree returns the tree hash of the current HEAD commit, or ZeroHash
// when the repository has no commits yet.
func (p *Persistence) headTree() (plumbing.Hash, error) {
	headRef, err := p.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, nil
	}

	commit, err := p.repo.CommitObject(headRef.Hash())
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get head commit: %w", err)
	}

	return commit.TreeHash, nil
}

func (p *Persistence) treeEntries(treeHash plumbing.Hash) (map[string]object.TreeEntry, error) {
	entries := make(map[string]object.TreeEntry)

	if treeHash == plumbing.ZeroHash {
		return entries, nil
	}

	tree, err := object.GetTree(p.repo.Storer, treeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	for _, entry := range tree.Entries {
		entries[entry.Name] = entry
	}

	return entries, nil
}

func (p *Persistence) storeTree(entries map[string]object.TreeEntry) (plumbing.Hash, error) {
	slice := make([]object.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		slice = append(slice, entry)
	}

	// Git requires tree entries sorted with directories compared as if
	// they had a trailing slash.
	sort.Slice(slice, func(i, j int) bool {
		nameI := slice[i].Name
		nameJ := slice[j].Name
		if slice[i].Mode == filemode.Dir {
			nameI += "/"
		}
		if slice[j].Mode == filemode.Dir {
			nameJ += "/"
		}
		return nameI < nameJ
	})

	tree := &object.Tree{Entries: slice}

	obj := p.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}

	return hash, nil
}

// applyChanges rewrites the tree at treeHash with all changes applied,
// recursing one path segment at a time. Writes and deletes are handled in
// one pass so a batch produces exactly one new tree per touched directory.
// Returns ZeroHash when the resulting tree is empty.
func (p *Persistence) applyChanges(treeHash plumbing.Hash, changes []Change) (plumbing.Hash, error) {
	if len(changes) == 0 {
		return treeHash, nil
	}

	entries, err := p.treeEntries(treeHash)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	grouped := make(map[string][]Change)

	for _, change := range changes {
		if change.Path == "" {
			return plumbing.ZeroHash, fmt.Errorf("empty path in change set")
		}

		name, rest, nested := strings.Cut(change.Path, "/")
		if nested {
			grouped[name] = append(grouped[name], Change{
				Path:   rest,
				Data:   change.Data,
				Delete: change.Delete,
			})
			continue
		}

		if change.Delete {
			delete(entries, name)
			continue
		}

		blobHash, err := p.createBlob(change.Data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to create blob for %s: %w", name, err)
		}
		entries[name] = object.TreeEntry{
			Name: name,
			Mode: filemode.Regular,
			Hash: blobHash,
		}
	}

	for name, subChanges := range grouped {
		var subTree plumbing.Hash
		if existing, ok := entries[name]; ok && existing.Mode == filemode.Dir {
			subTree = existing.Hash
		}

		newSubTree, err := p.applyChanges(subTree, subChanges)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		if newSubTree == plumbing.ZeroHash {
			delete(entries, name)
		} else {
			entries[name] = object.TreeEntry{
				Name: name,
				Mode: filemode.Dir,
				Hash: newSubTree,
			}
		}
	}

	if len(entries) == 0 {
		return plumbing.ZeroHash, nil
	}

	return p.storeTree(entries)
}

// commitTree records treeHash as a new commit on the current branch.
func (p *Persistence) commitTree(treeHash plumbing.Hash, identity core.Identity, message string) (Transaction, error) {
	actualTreeHash := treeHash
	if treeHash == plumbing.ZeroHash {
		emptyTree := &object.Tree{Entries: []object.TreeEntry{}}
		obj := p.repo.Storer.NewEncodedObject()
		if err := emptyTree.Encode(obj); err != nil {
			return Transaction{}, fmt.Errorf("failed to encode empty tree: %w", err)
		}
		var err error
		actualTreeHash, err = p.repo.Storer.SetEncodedObject(obj)
		if err != nil {
			return Transaction{}, fmt.Errorf("failed to store empty tree: %w", err)
		}
	}

	var parentHashes []plumbing.Hash
	headRef, err := p.repo.Head()
	if err == nil {
		parentHashes = []plumbing.Hash{headRef.Hash()}
	}

	sig := object.Signature{
		Name:  identity.Name,
		Email: identity.Email,
		When:  time.Now(),
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     actualTreeHash,
		ParentHashes: parentHashes,
	}

	obj := p.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return Transaction{}, fmt.Errorf("failed to encode commit: %w", err)
	}

	commitHash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branchName := plumbing.Master
	if headRef != nil && headRef.Name().IsBranch() {
		branchName = headRef.Name()
	}

	ref := plumbing.NewHashReference(branchName, commitHash)
	if err := p.repo.Storer.SetReference(ref); err != nil {
		return Transaction{}, fmt.Errorf("failed to update HEAD: %w", err)
	}

	return Transaction{
		Id:   commitHash.String(),
		When: sig.When,
	}, nil
}

// Apply commits a batch of changes atomically: either every change in the
// batch lands in one commit or none do.
func (p *Persistence) Apply(changes []Change, identity core.Identity, message string) (Transaction, error) {
	if err := p.ensureInitialized(); err != nil {
		return Transaction{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	currentTree, err := p.headTree()
	if err != nil {
		return Transaction{}, err
	}

	newTree, err := p.applyChanges(currentTree, changes)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to update tree: %w", err)
	}

	txn, err := p.commitTree(newTree, identity, message)
	if err != nil {
		return Transaction{}, err
	}

	if err := p.syncWorktree(); err != nil {
		return Transaction{}, fmt.Errorf("failed to sync worktree: %w", err)
	}

	return txn, nil
}

// Put writes a single file and commits it.
func (p *Persistence) Put(path string, data []byte, identity core.Identity, message string) (Transaction, error) {
	return p.Apply([]Change{{Path: path, Data: data}}, identity, message)
}

// Delete removes the entries at the given paths and commits. A path naming
// a directory removes the whole subtree.
func (p *Persistence) Delete(paths []string, identity core.Identity, message string) (Transaction, error) {
	changes := make([]Change, 0, len(paths))
	for _, path := range paths {
		changes = append(changes, Change{Path: path, Delete: true})
	}
	return p.Apply(changes, identity, message)
}

// syncWorktree resets the worktree filesystem to match HEAD. Skipped in
// memory mode since reads go directly to the Git tree.
func (p *Persistence) syncWorktree() error {
	if p.memoryMode {
		return nil
	}

	wt, err := p.repo.Worktree()
	if err != nil {
		return err
	}

	headRef, err := p.repo.Head()
	if err != nil {
		return err
	}

	commit, err := p.repo.CommitObject(headRef.Hash())
	if err != nil {
		return err
	}

	tree, err := commit.Tree()
	if err != nil {
		return err
	}

	// git reset fails with "base dir cannot be removed" on an empty tree,
	// so clean the filesystem manually in that case.
	if len(tree.Entries) == 0 {
		fs := wt.Filesystem
		entries, err := fs.ReadDir("/")
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if entry.Name() != ".git" {
				fs.Remove(entry.Name())
			}
		}
		return nil
	}

	return wt.Reset(&git.ResetOptions{
		Mode:   git.HardReset,
		Commit: headRef.Hash(),
	})
}

func (p *Persistence) currentTree() (*object.Tree, error) {
	headRef, err := p.repo.Head()
	if err != nil {
		return nil, ErrNotFound
	}

	commit, err := p.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	return tree, nil
}

// Get reads a file directly from the Git tree, bypassing the worktree.
func (p *Persistence) Get(path string) ([]byte, bool) {
	if !p.IsInitialized() {
		return nil, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	tree, err := p.currentTree()
	if err != nil {
		return nil, false
	}

	file, err := tree.File(path)
	if err != nil {
		return nil, false
	}

	content, err := file.Contents()
	if err != nil {
		return nil, false
	}

	return []byte(content), true
}

// Entry is a directory entry from the Git tree.
type Entry struct {
	Name  string
	IsDir bool
}

// ListDir lists the immediate entries under dirPath. A missing directory
// yields an empty listing, not an error.
func (p *Persistence) ListDir(dirPath string) ([]Entry, error) {
	if !p.IsInitialized() {
		return nil, ErrNotInitialized
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	tree, err := p.currentTree()
	if err != nil {
		return nil, nil
	}

	target := tree
	if dirPath != "" && dirPath != "." {
		target, err = tree.Tree(dirPath)
		if err != nil {
			return nil, nil
		}
	}

	var entries []Entry
	for _, entry := range target.Entries {
		entries = append(entries, Entry{
			Name:  entry.Name,
			IsDir: entry.Mode == filemode.Dir,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// ListFiles reads every regular file under dirPath, keyed by path relative
// to dirPath. Nested directories are walked recursively.
func (p *Persistence) ListFiles(dirPath string) (map[string][]byte, error) {
	if !p.IsInitialized() {
		return nil, ErrNotInitialized
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	tree, err := p.currentTree()
	if err != nil {
		return map[string][]byte{}, nil
	}

	target := tree
	if dirPath != "" && dirPath != "." {
		target, err = tree.Tree(dirPath)
		if err != nil {
			return map[string][]byte{}, nil
		}
	}

	files := make(map[string][]byte)
	err = target.Files().ForEach(func(f *object.File) error {
		content, err := f.Contents()
		if err != nil {
			return err
		}
		files[f.Name] = []byte(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dirPath, err)
	}

	return files, nil
}
