// Package vcs answers questions about the enclosing git repository.
package vcs

import (
	"fmt"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"

	"github.com/sibyl-dev/sibyl/internal/scanner"
)

// ChangedPythonFiles returns the Python files that are modified,
// added, or untracked in the working tree, as absolute paths, sorted.
// The repository is detected from path upward.
func ChangedPythonFiles(path string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	root := wt.Filesystem.Root()
	var files []string
	for rel, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if st.Worktree == git.Deleted || st.Staging == git.Deleted {
			continue
		}
		if !scanner.IsPythonFile(rel) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(files)
	return files, nil
}
