package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitFetcher checks library revisions out under CacheDir/lib.
type GitFetcher struct {
	CacheDir string
}

// NewGitFetcher returns a fetcher rooted at cacheDir, or nil when cacheDir is
// empty.
func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{CacheDir: cacheDir}
}

// Fetch clones lib.Git, checks out the requested revision and returns the
// checkout directory. A checkout that already exists for an explicit rev is
// reused without touching the network.
func (g *GitFetcher) Fetch(lib *Library) (string, error) {
	if g == nil || g.CacheDir == "" {
		return "", errors.New("git fetcher unavailable")
	}
	if lib == nil {
		return "", errors.New("git fetcher: nil library")
	}
	url := strings.TrimSpace(lib.Git)
	if url == "" {
		return "", fmt.Errorf("library %q: git URL required", lib.Name)
	}

	baseDir := filepath.Join(g.CacheDir, "lib", sanitizePathSegment(lib.Name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revisions, descriptor, err := libraryRevisions(lib)
	if err != nil {
		return "", fmt.Errorf("library %q: %w", lib.Name, err)
	}

	if rev := strings.TrimSpace(lib.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if info, err := os.Stat(existing); err == nil && info.IsDir() {
			return existing, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	var hash *plumbing.Hash
	for _, rev := range revisions {
		if hash, err = repo.ResolveRevision(rev); err == nil {
			break
		}
	}
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", descriptor, err)
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(descriptor))
	if info, err := os.Stat(targetDir); err == nil && info.IsDir() {
		if lib.Branch == "" {
			_ = os.RemoveAll(tmpDir)
			return targetDir, nil
		}
		// Branches move; replace the stale checkout.
		if err := os.RemoveAll(targetDir); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", descriptor, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return targetDir, nil
}

// libraryRevisions lists the revisions to try, in order, for lib's selector.
// Clones only carry a local head for the default branch, so branches fall
// back to the remote-tracking ref.
func libraryRevisions(lib *Library) ([]plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(lib.Rev); rev != "" {
		return []plumbing.Revision{plumbing.Revision(rev)}, rev, nil
	}
	if tag := strings.TrimSpace(lib.Tag); tag != "" {
		return []plumbing.Revision{plumbing.Revision("refs/tags/" + tag)}, tag, nil
	}
	if branch := strings.TrimSpace(lib.Branch); branch != "" {
		return []plumbing.Revision{
			plumbing.Revision("refs/heads/" + branch),
			plumbing.Revision("refs/remotes/origin/" + branch),
		}, branch, nil
	}
	return nil, "", fmt.Errorf("git libraries require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
