// Package github installs the hemtt binary from GitHub release assets.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	gh "github.com/google/go-github/v60/github"
)

// BrettMayson/HEMTT is where upstream publishes releases; both can be
// overridden for forks.
const (
	DefaultOwner = "BrettMayson"
	DefaultRepo  = "HEMTT"
)

const binaryName = "hemtt"

// Client wraps the GitHub API for hemtt release operations.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client
	assetTmpl  *template.Template
	binDir     string
}

// New creates a client with the given token (may be empty for anonymous
// access to public releases), asset pattern, and install directory.
func New(token, assetPattern, binDir string) (*Client, error) {
	httpClient := &http.Client{}
	ghClient := gh.NewClient(httpClient)
	if token != "" {
		ghClient = ghClient.WithAuthToken(token)
	}
	return newWithClients(ghClient, httpClient, assetPattern, binDir)
}

// newWithClients creates a Client with injected HTTP and GitHub clients (for testing).
func newWithClients(ghClient *gh.Client, httpClient *http.Client, assetPattern, binDir string) (*Client, error) {
	tmpl, err := template.New("asset").Parse(assetPattern)
	if err != nil {
		return nil, fmt.Errorf("parsing asset pattern %q: %w", assetPattern, err)
	}
	return &Client{
		gh:         ghClient,
		httpClient: httpClient,
		assetTmpl:  tmpl,
		binDir:     binDir,
	}, nil
}

// assetName renders the configured pattern for a release tag. The pattern
// may reference {{.Name}} (always "hemtt") and {{.Version}}.
func (c *Client) assetName(version string) (string, error) {
	var buf strings.Builder
	err := c.assetTmpl.Execute(&buf, map[string]string{
		"Name":    binaryName,
		"Version": version,
	})
	if err != nil {
		return "", fmt.Errorf("rendering asset pattern: %w", err)
	}
	return buf.String(), nil
}

// ResolveVersion resolves "latest" to the actual release tag, or returns
// the version as-is.
func (c *Client) ResolveVersion(ctx context.Context, owner, repo, version string) (string, error) {
	owner, repo = orDefaults(owner, repo)

	if version == "latest" || version == "" {
		release, _, err := c.gh.Repositories.GetLatestRelease(ctx, owner, repo)
		if err != nil {
			return "", fmt.Errorf("getting latest release for %s/%s: %w", owner, repo, err)
		}
		return release.GetTagName(), nil
	}
	return version, nil
}

// Install downloads the release asset matching the configured pattern,
// writes it as <binDir>/hemtt-<version>, and points the <binDir>/hemtt
// symlink at it. Returns the symlink path.
func (c *Client) Install(ctx context.Context, owner, repo, version string) (string, error) {
	owner, repo = orDefaults(owner, repo)

	release, _, err := c.gh.Repositories.GetReleaseByTag(ctx, owner, repo, version)
	if err != nil {
		return "", fmt.Errorf("fetching release %s of %s/%s: %w", version, owner, repo, err)
	}

	wanted, err := c.assetName(version)
	if err != nil {
		return "", err
	}

	var asset *gh.ReleaseAsset
	var published []string
	for _, a := range release.Assets {
		published = append(published, a.GetName())
		if a.GetName() == wanted {
			asset = a
		}
	}
	if asset == nil {
		return "", fmt.Errorf("release %s has no asset %q (published: %s); adjust github.asset_pattern",
			version, wanted, strings.Join(published, ", "))
	}

	versioned := filepath.Join(c.binDir, binaryName+"-"+version)
	if err := c.download(ctx, owner, repo, asset.GetID(), versioned); err != nil {
		return "", fmt.Errorf("downloading %s: %w", wanted, err)
	}

	link := filepath.Join(c.binDir, binaryName)
	os.Remove(link) // replace the previous version's symlink
	if err := os.Symlink(filepath.Base(versioned), link); err != nil {
		return "", fmt.Errorf("linking %s: %w", link, err)
	}
	return link, nil
}

// download streams one release asset into dest via a temp file in the
// same directory, so a failed or interrupted download never leaves a
// half-written binary at dest.
func (c *Client) download(ctx context.Context, owner, repo string, assetID int64, dest string) error {
	rc, _, err := c.gh.Repositories.DownloadReleaseAsset(ctx, owner, repo, assetID, c.httpClient)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(c.binDir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.binDir, binaryName+"-download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0755); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// InstalledVersion reads the hemtt symlink in binDir and reports the tag
// it points at, or an empty string when nothing is installed.
func InstalledVersion(binDir string) string {
	target, err := os.Readlink(filepath.Join(binDir, binaryName))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(filepath.Base(target), binaryName+"-")
}

func orDefaults(owner, repo string) (string, string) {
	if owner == "" {
		owner = DefaultOwner
	}
	if repo == "" {
		repo = DefaultRepo
	}
	return owner, repo
}
