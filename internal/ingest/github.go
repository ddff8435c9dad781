package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
)

const githubUserAgent = "code-intelligence-scanner"

var githubRepoRe = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseGitHubRepo accepts https://github.com/OWNER/REPO with an optional
// .git suffix or trailing slash.
func ParseGitHubRepo(repoURL string) (owner, repo string, err error) {
	m := githubRepoRe.FindStringSubmatch(repoURL)
	if m == nil {
		return "", "", fmt.Errorf("invalid GitHub repo URL: %q", repoURL)
	}
	return m[1], m[2], nil
}

// DownloadGitHubZip fetches the source zipball for a public repo. The
// refs/heads form is safest for branch names; the bare archive form still
// covers tags and commit SHAs, so it is tried second.
func DownloadGitHubZip(ctx context.Context, client *http.Client, owner, repo, ref string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	urls := []string{
		fmt.Sprintf("https://github.com/%s/%s/archive/refs/heads/%s.zip", owner, repo, ref),
		fmt.Sprintf("https://github.com/%s/%s/archive/%s.zip", owner, repo, ref),
	}
	var lastErr error
	for _, u := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("User-Agent", githubUserAgent)
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: %s", u, resp.Status)
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("download zip for %s/%s@%s: %w", owner, repo, ref, lastErr)
}

// IngestGitHub downloads a public repo at ref and copies the allowed subset
// into inputDir. GitHub zipballs wrap everything in a single
// "repo-ref/" folder, which is stripped.
func IngestGitHub(ctx context.Context, client *http.Client, repoURL, ref, inputDir string, rules Rules) (Summary, error) {
	owner, repo, err := ParseGitHubRepo(repoURL)
	if err != nil {
		return newSummary(rules), err
	}

	data, err := DownloadGitHubZip(ctx, client, owner, repo, ref)
	if err != nil {
		return newSummary(rules), err
	}

	tmp, err := os.MkdirTemp("", "ingest-github-")
	if err != nil {
		return newSummary(rules), err
	}
	defer os.RemoveAll(tmp)

	if err := ExtractZip(data, tmp); err != nil {
		return newSummary(rules), err
	}

	root, err := zipballRoot(tmp)
	if err != nil {
		return newSummary(rules), err
	}

	sum, err := CopyTree(root, inputDir, rules)
	sum.Source = Source{
		Type:    "github",
		RepoURL: repoURL,
		Owner:   owner,
		Repo:    repo,
		Ref:     ref,
	}
	return sum, err
}

func zipballRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("downloaded zip had no root folder")
}
