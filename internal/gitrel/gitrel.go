// Package gitrel automates the git side of a plugin release: staging,
// committing, tagging and pushing. go-git is used for local operations with
// a git CLI fallback for push, since credential helpers only work there.
package gitrel

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/conn2flow/flowdev/pkg/logger"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Options controls one release run.
type Options struct {
	RepoDir string
	Message string // commit message, already rendered
	Tag     string // annotated tag name; empty skips tagging
	Push    bool
	Remote  string
	NoOp    bool

	// Author identity used when git config carries none.
	AuthorName  string
	AuthorEmail string
}

// Result reports what the release run did.
type Result struct {
	Committed bool
	CommitSHA string
	Tagged    bool
	Pushed    bool
}

// Run performs stage-all, commit, tag and push according to opts. A clean
// worktree skips the commit but still allows tagging.
func Run(opts Options) (*Result, error) {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}

	repo, err := git.PlainOpenWithOptions(opts.RepoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s", opts.RepoDir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read git status: %w", err)
	}

	result := &Result{}

	if !status.IsClean() {
		if opts.NoOp {
			logger.Info(fmt.Sprintf("Would commit %d changed file(s): %s", len(status), opts.Message))
		} else {
			if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
				return nil, fmt.Errorf("failed to stage changes: %w", err)
			}
			sha, err := wt.Commit(opts.Message, &git.CommitOptions{
				Author: author(opts),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to commit: %w", err)
			}
			result.Committed = true
			result.CommitSHA = sha.String()
			logger.Info("created commit", logger.String("sha", sha.String()[:8]), logger.String("message", opts.Message))
		}
	} else {
		logger.Info("worktree clean, nothing to commit")
	}

	if opts.Tag != "" {
		if opts.NoOp {
			logger.Info(fmt.Sprintf("Would create annotated tag %s", opts.Tag))
		} else {
			head, err := repo.Head()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve HEAD for tagging: %w", err)
			}
			_, err = repo.CreateTag(opts.Tag, head.Hash(), &git.CreateTagOptions{
				Tagger:  author(opts),
				Message: opts.Tag,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create tag %s: %w", opts.Tag, err)
			}
			result.Tagged = true
			logger.Info("created tag", logger.String("tag", opts.Tag))
		}
	}

	if opts.Push {
		if opts.NoOp {
			logger.Info(fmt.Sprintf("Would push to %s (with tags)", opts.Remote))
		} else {
			if err := EnsureRemote(opts.RepoDir, opts.Remote); err != nil {
				return nil, err
			}
			if err := push(repo, opts); err != nil {
				return nil, err
			}
			result.Pushed = true
			logger.Info("pushed to remote", logger.String("remote", opts.Remote))
		}
	}

	return result, nil
}

func author(opts Options) *object.Signature {
	name := opts.AuthorName
	if name == "" {
		name = "flowdev"
	}
	email := opts.AuthorEmail
	if email == "" {
		email = "flowdev@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// push tries go-git first and falls back to the git CLI, which knows about
// credential helpers and ssh agents that go-git may not reach.
func push(repo *git.Repository, opts Options) error {
	err := repo.Push(&git.PushOptions{
		RemoteName: opts.Remote,
		FollowTags: true,
	})
	if err == nil || err == git.NoErrAlreadyUpToDate {
		return nil
	}

	if _, lookErr := exec.LookPath("git"); lookErr != nil {
		return fmt.Errorf("push failed and git CLI unavailable: %w", err)
	}

	logger.Debug("go-git push failed, falling back to git CLI", logger.Err(err))
	cmd := exec.Command("git", "push", "--follow-tags", opts.Remote)
	cmd.Dir = opts.RepoDir
	if out, cmdErr := cmd.CombinedOutput(); cmdErr != nil {
		return fmt.Errorf("git push failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// LatestTag returns the most recent semver tag reachable from HEAD, if any.
func LatestTag(repoDir string) (string, error) {
	cmd := exec.Command("git", "describe", "--tags", "--abbrev=0", "--match", "v[0-9]*.[0-9]*.[0-9]*")
	cmd.Dir = repoDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("no release tags found")
	}
	return strings.TrimSpace(string(output)), nil
}

// EnsureRemote verifies the named remote exists before a push is attempted.
func EnsureRemote(repoDir, name string) error {
	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("not a git repository: %s", repoDir)
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return err
	}
	for _, r := range remotes {
		if r.Config().Name == name {
			return nil
		}
	}
	return fmt.Errorf("remote %q not configured", name)
}

// CreateTag creates an annotated tag on HEAD without touching the worktree.
func CreateTag(repoDir, tag string, noOp bool) error {
	if noOp {
		logger.Info(fmt.Sprintf("Would create git tag: %s", tag))
		return nil
	}

	repo, err := git.PlainOpenWithOptions(repoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("not a git repository: %s", repoDir)
	}
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD for tagging: %w", err)
	}
	_, err = repo.CreateTag(tag, head.Hash(), &git.CreateTagOptions{
		Tagger:  author(Options{}),
		Message: tag,
	})
	if err != nil {
		return fmt.Errorf("failed to create git tag %s: %w", tag, err)
	}
	logger.Info("created tag", logger.String("tag", tag))
	return nil
}
