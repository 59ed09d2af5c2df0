// Package gitsync keeps a local checkout of the documentation repository
// in step with its remote, cloning on first use and pulling afterwards.
package gitsync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	siteerrors "github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/logfields"
)

// Client synchronizes a single repository checkout.
type Client struct {
	dir    string
	url    string
	branch string
}

// NewClient returns a client managing the checkout at dir.
func NewClient(dir, url, branch string) *Client {
	return &Client{dir: dir, url: url, branch: branch}
}

// Sync clones the repository if the checkout does not exist yet, otherwise
// pulls the latest changes. It reports whether the checkout changed.
func (c *Client) Sync(ctx context.Context) (bool, error) {
	if _, err := os.Stat(filepath.Join(c.dir, ".git")); err == nil {
		return c.pull(ctx)
	}
	return true, c.clone(ctx)
}

func (c *Client) clone(ctx context.Context) error {
	opts := &git.CloneOptions{URL: c.url}
	if c.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.branch)
		opts.SingleBranch = true
	}

	repository, err := git.PlainCloneContext(ctx, c.dir, false, opts)
	if err != nil {
		return siteerrors.GitSyncError(c.url, err)
	}

	if ref, err := repository.Head(); err == nil {
		slog.Info("Repository cloned",
			logfields.Repository(c.url),
			slog.String("commit", shortHash(ref.Hash().String())),
			logfields.Path(c.dir))
	} else {
		slog.Info("Repository cloned", logfields.Repository(c.url), logfields.Path(c.dir))
	}
	return nil
}

func (c *Client) pull(ctx context.Context) (bool, error) {
	repository, err := git.PlainOpen(c.dir)
	if err != nil {
		return false, siteerrors.GitSyncError(c.url, err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return false, siteerrors.GitSyncError(c.url, err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if c.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.branch)
		opts.SingleBranch = true
	}

	err = worktree.PullContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Debug("Repository already up to date", logfields.Repository(c.url))
		return false, nil
	}
	if err != nil {
		return false, siteerrors.GitSyncError(c.url, err)
	}

	if ref, err := repository.Head(); err == nil {
		slog.Info("Repository updated",
			logfields.Repository(c.url),
			slog.String("commit", shortHash(ref.Hash().String())))
	}
	return true, nil
}

// Head returns the current checkout commit hash, or empty when unavailable.
func (c *Client) Head() string {
	repository, err := git.PlainOpen(c.dir)
	if err != nil {
		return ""
	}
	ref, err := repository.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
