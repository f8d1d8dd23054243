// Package gitver resolves the project name and version from the enclosing
// git repository. It feeds the default image name and image version used
// when a declaration does not override them.
package gitver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// VersionInfo holds resolved version metadata from git.
type VersionInfo struct {
	Version      string // full version: "1.2.3", "1.2.3-alpha.1", "0.0.0-dev+abc1234"
	Base         string // semver base without prerelease: "1.2.3"
	Major        string
	Minor        string
	Patch        string
	Prerelease   string // "alpha.1", "rc.1", or "" for stable
	SHA          string // short commit hash
	Branch       string
	IsRelease    bool // true if HEAD is exactly at a tag
	IsPrerelease bool
}

// DetectVersion resolves version info from the repository containing
// rootDir: the nearest reachable semver tag, with a -dev+sha suffix when
// HEAD has moved past it, or 0.0.0-dev+sha when no tag exists.
func DetectVersion(rootDir string) (*VersionInfo, error) {
	repo, err := openRepo(rootDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	v := &VersionInfo{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		v.Branch = head.Name().Short()
	}

	tagged, err := taggedCommits(repo)
	if err != nil {
		return nil, err
	}

	tag, exact, err := nearestTag(repo, head.Hash(), tagged)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		v.Version = "0.0.0-dev+" + v.SHA
		v.Base = "0.0.0"
		v.Major, v.Minor, v.Patch = "0", "0", "0"
		return v, nil
	}

	v.IsRelease = exact
	applyTag(v, tag)
	if !v.IsRelease {
		v.Version = fmt.Sprintf("%s-dev+%s", v.Version, v.SHA)
	}
	return v, nil
}

// ProjectName resolves a project name from the origin remote, falling back
// to the root directory's base name.
func ProjectName(rootDir string) string {
	if repo, err := openRepo(rootDir); err == nil {
		if remote, err := repo.Remote("origin"); err == nil {
			urls := remote.Config().URLs
			if len(urls) > 0 {
				if name := repoNameFromRemote(urls[0]); name != "" {
					return name
				}
			}
		}
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return filepath.Base(rootDir)
	}
	return filepath.Base(abs)
}

func openRepo(rootDir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", rootDir, err)
	}
	return repo, nil
}

// taggedCommits maps commit hashes to tag names. Annotated tags are
// resolved to their target commit.
func taggedCommits(repo *git.Repository) (map[plumbing.Hash]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	out := map[plumbing.Hash]string{}
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if obj, err := repo.TagObject(hash); err == nil {
			hash = obj.Target
		}
		out[hash] = ref.Name().Short()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking tags: %w", err)
	}
	return out, nil
}

// nearestTag walks the commit history from head and returns the first
// tagged commit's tag, and whether head itself carries it.
func nearestTag(repo *git.Repository, head plumbing.Hash, tagged map[plumbing.Hash]string) (string, bool, error) {
	if len(tagged) == 0 {
		return "", false, nil
	}
	iter, err := repo.Log(&git.LogOptions{From: head})
	if err != nil {
		return "", false, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	for {
		commit, err := iter.Next()
		if err != nil {
			// End of history without a tag.
			return "", false, nil
		}
		if tag, ok := tagged[commit.Hash]; ok {
			return tag, commit.Hash == head, nil
		}
	}
}

// applyTag fills version fields from a tag name. Non-semver tags are used
// raw.
func applyTag(v *VersionInfo, tag string) {
	parsed, err := semver.NewVersion(tag)
	if err != nil {
		raw := strings.TrimPrefix(tag, "v")
		v.Version = raw
		v.Base = raw
		return
	}
	v.Major = fmt.Sprintf("%d", parsed.Major())
	v.Minor = fmt.Sprintf("%d", parsed.Minor())
	v.Patch = fmt.Sprintf("%d", parsed.Patch())
	v.Base = fmt.Sprintf("%d.%d.%d", parsed.Major(), parsed.Minor(), parsed.Patch())
	if pre := parsed.Prerelease(); pre != "" {
		v.Prerelease = pre
		v.IsPrerelease = true
		v.Version = v.Base + "-" + pre
	} else {
		v.Version = v.Base
	}
}

// repoNameFromRemote extracts the repository name from a git remote URL.
// Handles SSH (git@host:org/repo.git) and HTTPS (https://host/org/repo.git).
func repoNameFromRemote(remote string) string {
	remote = strings.TrimSuffix(remote, ".git")

	// SSH: git@host:org/repo
	if idx := strings.LastIndex(remote, ":"); idx != -1 && !strings.Contains(remote, "://") {
		remote = remote[idx+1:]
	}

	if idx := strings.LastIndex(remote, "/"); idx != -1 {
		return remote[idx+1:]
	}
	return remote
}
