package clauses

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"

	"oddrafter/internal/logging"
	"oddrafter/pkg/fileops"
)

// TokenFunc returns the access token for private repositories. An empty
// token with a nil error means none is configured.
type TokenFunc func() (string, error)

// GitSource keeps a local checkout of a clause repository up to date.
//
// The first Prepare clones the repository; later calls fetch and hard reset
// the checkout to the remote branch, so the cache always mirrors the remote.
// A checkout with uncommitted changes is left untouched. Public access is
// tried first and the token is only used when the remote asks for it.
type GitSource struct {
	RemoteURL string // HTTPS or SSH form; SSH is rewritten to HTTPS
	Branch    string // empty means the remote's default branch
	Path      string // local checkout directory
	Subdir    string // directory inside the repository holding the clauses
	Token     TokenFunc
}

var sshURLPattern = regexp.MustCompile(`^git@([^:]+):(.+?)$`)

// Prepare clones or refreshes the checkout and returns the directory that
// holds the clause files.
func (gs GitSource) Prepare(ctx context.Context, logger *logging.AppLogger) (string, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.TrimSpace(gs.RemoteURL) == "" {
		return "", fmt.Errorf("remote URL cannot be empty")
	}
	if strings.TrimSpace(gs.Path) == "" {
		return "", fmt.Errorf("local path cannot be empty")
	}

	remoteURL := NormalizeRemoteURL(gs.RemoteURL)
	localPath, err := filepath.Abs(filepath.Clean(fileops.ExpandPath(gs.Path)))
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	dir := localPath
	if gs.Subdir != "" {
		dir = filepath.Join(localPath, filepath.FromSlash(gs.Subdir))
		if !strings.HasPrefix(dir, localPath+string(filepath.Separator)) {
			return "", fmt.Errorf("clause subdirectory escapes the repository: %s", gs.Subdir)
		}
	}

	logger.Info("Preparing clause repository", "remoteURL", remoteURL, "branch", gs.Branch, "localPath", localPath)

	_, err = git.PlainOpen(localPath)
	switch {
	case err == nil:
		err = gs.withAuthFallback(logger, func(auth *http.BasicAuth) error {
			return gs.fetch(localPath, auth, logger)
		})
	case errors.Is(err, git.ErrRepositoryNotExists):
		if empty, emptyErr := isEmptyOrMissing(localPath); emptyErr != nil {
			return "", emptyErr
		} else if !empty {
			return "", fmt.Errorf("directory conflict at %s: it contains non-git content", localPath)
		}
		err = gs.withAuthFallback(logger, func(auth *http.BasicAuth) error {
			return gs.clone(localPath, remoteURL, auth, logger)
		})
	default:
		return "", fmt.Errorf("cannot open git repository: %w", err)
	}
	if err != nil {
		return "", err
	}

	return dir, nil
}

// NormalizeRemoteURL rewrites git@host:owner/repo SSH remotes to HTTPS so
// that token authentication works. Other URLs, including local paths, are
// returned unchanged.
func NormalizeRemoteURL(remoteURL string) string {
	remoteURL = strings.TrimSpace(remoteURL)
	if m := sshURLPattern.FindStringSubmatch(remoteURL); m != nil {
		path := strings.TrimSuffix(m[2], ".git")
		return fmt.Sprintf("https://%s/%s.git", m[1], path)
	}
	return remoteURL
}

// withAuthFallback runs op anonymously and retries with the token when the
// remote rejects anonymous access.
func (gs GitSource) withAuthFallback(logger *logging.AppLogger, op func(auth *http.BasicAuth) error) error {
	err := op(nil)
	if err == nil || !isAuthenticationError(err) {
		return err
	}

	logger.Debug("Anonymous access failed, trying with token")

	if gs.Token == nil {
		return fmt.Errorf("repository requires authentication and no git token is configured: %w", err)
	}
	token, tokenErr := gs.Token()
	if tokenErr != nil {
		return fmt.Errorf("failed to read git token: %w", tokenErr)
	}
	if token == "" {
		return fmt.Errorf("repository requires authentication and no git token is configured: %w", err)
	}

	// token auth uses a fixed username
	return op(&http.BasicAuth{Username: "token", Password: token})
}

func (gs GitSource) clone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	logger.Info("Cloning clause repository", "remoteURL", remoteURL, "localPath", localPath)

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL: remoteURL,
	}
	if isNetworkURL(remoteURL) {
		cloneOpts.Depth = 1
	}
	if auth != nil {
		cloneOpts.Auth = auth
	}
	if gs.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(gs.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainClone(localPath, cloneOpts); err != nil {
		// a failed clone leaves a partial .git behind
		_ = os.RemoveAll(localPath)
		return translateGitError("clone", err)
	}

	logger.Info("Clause repository cloned", "localPath", localPath)
	return nil
}

func (gs GitSource) fetch(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get working tree status: %w", err)
	}
	if !status.IsClean() {
		logger.Warn("Clause checkout has uncommitted changes, skipping sync", "localPath", localPath)
		return nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to get origin remote: %w", err)
	}

	fetchOpts := &git.FetchOptions{
		Auth:  auth,
		Force: true,
	}
	if urls := remote.Config().URLs; len(urls) > 0 && isNetworkURL(urls[0]) {
		fetchOpts.Depth = 1
	}

	err = remote.Fetch(fetchOpts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logger.Debug("Clause repository already up to date")
		return nil
	}
	if err != nil {
		return translateGitError("fetch", err)
	}

	branch := gs.Branch
	if branch == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("failed to get current branch: %w", err)
		}
		branch = head.Name().Short()
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return fmt.Errorf("branch '%s' does not exist on remote 'origin'", branch)
	}

	if err := worktree.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return fmt.Errorf("failed to reset to origin/%s: %w", branch, err)
	}

	logger.Info("Clause repository updated", "branch", branch, "commit", remoteRef.Hash().String())
	return nil
}

var authErrorPatterns = []string{
	"authentication required",
	"401",
	"unauthorized",
	"403",
	"forbidden",
}

func isAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errAuth) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range authErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var errAuth = errors.New("authentication failed")

// translateGitError keeps auth failures recognisable so the caller can retry
// with a token.
func translateGitError(op string, err error) error {
	if isAuthenticationError(err) {
		return fmt.Errorf("%w during %s: %v", errAuth, op, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "404") || strings.Contains(msg, "not found") {
		return fmt.Errorf("repository not found during %s: %w", op, err)
	}
	if strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") {
		return fmt.Errorf("network error during %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s repository: %w", op, err)
}

// isNetworkURL reports whether shallow transfers apply; local remotes are
// always copied in full.
func isNetworkURL(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}

func isEmptyOrMissing(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot access directory %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}
