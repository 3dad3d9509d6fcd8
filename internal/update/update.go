// Package update checks GitHub releases for newer thinker builds and
// replaces the running binary in place.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"

	"github.com/pengelbrecht/thinker/internal/log"
)

const (
	repoOwner     = "pengelbrecht"
	repoName      = "thinker"
	brewFormula   = "pengelbrecht/tap/thinker"
	checkInterval = 24 * time.Hour
	checkTimeout  = 3 * time.Second
)

// ErrHomebrewInstall is returned by Update for binaries that brew owns.
var ErrHomebrewInstall = errors.New("thinker was installed via Homebrew")

// cache stores the last update check result.
type cache struct {
	LastCheck       time.Time `json:"last_check"`
	LatestVersion   string    `json:"latest_version,omitempty"`
	UpdateAvailable bool      `json:"update_available"`
}

func cachePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "thinker", "update-cache.json")
}

func loadCache() *cache {
	path := cachePath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c cache
	if err := json.Unmarshal(data, &c); err != nil {
		log.Warn(log.CatUpdate, "ignoring corrupt cache", "path", path, "error", err)
		return nil
	}
	return &c
}

func saveCache(c *cache) {
	path := cachePath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.ErrorErr(log.CatUpdate, "create cache dir", err)
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.ErrorErr(log.CatUpdate, "write cache", err)
	}
}

// InstallMethod represents how thinker was installed.
type InstallMethod int

const (
	// InstallUnknown means we couldn't determine the install method.
	InstallUnknown InstallMethod = iota
	// InstallHomebrew means thinker was installed via Homebrew.
	InstallHomebrew
	// InstallScript means thinker was installed via release binary or go install.
	InstallScript
)

func (m InstallMethod) String() string {
	switch m {
	case InstallHomebrew:
		return "homebrew"
	case InstallScript:
		return "script"
	default:
		return "unknown"
	}
}

// DetectInstallMethod determines how thinker was installed from the binary path.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallUnknown
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return InstallUnknown
	}
	return installMethodForPath(exe)
}

func installMethodForPath(exe string) InstallMethod {
	if strings.Contains(exe, "/Cellar/") ||
		strings.HasPrefix(exe, "/opt/homebrew/") ||
		strings.HasPrefix(exe, "/usr/local/Homebrew/") ||
		strings.Contains(exe, "linuxbrew") {
		return InstallHomebrew
	}
	return InstallScript
}

// Release represents information about a release.
type Release struct {
	Version string
}

func isDevBuild(version string) bool {
	v := strings.TrimPrefix(version, "v")
	return v == "" || v == "dev"
}

func detectLatest(ctx context.Context) (*selfupdate.Updater, *selfupdate.Release, bool, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, false, fmt.Errorf("create GitHub source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, nil, false, fmt.Errorf("create updater: %w", err)
	}
	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, nil, false, fmt.Errorf("detect latest version: %w", err)
	}
	return updater, latest, found, nil
}

// CheckForUpdate reports the latest release and whether it is newer than
// currentVersion. Dev builds are never checked.
func CheckForUpdate(ctx context.Context, currentVersion string) (*Release, bool, error) {
	if isDevBuild(currentVersion) {
		return nil, false, nil
	}

	_, latest, found, err := detectLatest(ctx)
	if err != nil || !found {
		return nil, false, err
	}

	release := &Release{Version: latest.Version()}
	return release, latest.GreaterThan(strings.TrimPrefix(currentVersion, "v")), nil
}

// Update downloads and installs the latest version.
// Homebrew installs are refused; brew owns those binaries.
func Update(ctx context.Context, currentVersion string) (string, error) {
	if DetectInstallMethod() == InstallHomebrew {
		return "", ErrHomebrewInstall
	}
	if isDevBuild(currentVersion) {
		return "", fmt.Errorf("cannot update dev builds")
	}

	updater, latest, found, err := detectLatest(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("no releases found")
	}
	if !latest.GreaterThan(strings.TrimPrefix(currentVersion, "v")) {
		return "", fmt.Errorf("already at latest version (%s)", currentVersion)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return "", fmt.Errorf("update: %w", err)
	}
	log.Info(log.CatUpdate, "updated", "from", currentVersion, "to", latest.Version())
	return latest.Version(), nil
}

// UpdateInstructions returns instructions for updating based on install method.
func UpdateInstructions(method InstallMethod) string {
	switch method {
	case InstallHomebrew:
		return "run: brew upgrade " + brewFormula
	default:
		return "run: thinker upgrade"
	}
}

// CheckPeriodically checks for updates at most once per checkInterval.
// Returns a notice string if an update is available, empty string otherwise.
// Failures are logged and never surfaced.
func CheckPeriodically(currentVersion string) string {
	if isDevBuild(currentVersion) {
		return ""
	}
	current := strings.TrimPrefix(currentVersion, "v")

	if c := loadCache(); c != nil && time.Since(c.LastCheck) < checkInterval {
		// The user may have upgraded since the cache was written.
		if c.UpdateAvailable && isNewerVersion(c.LatestVersion, current) {
			return formatUpdateNotice(currentVersion, c.LatestVersion, DetectInstallMethod())
		}
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	release, hasUpdate, err := CheckForUpdate(ctx, currentVersion)
	if err != nil {
		log.ErrorErr(log.CatUpdate, "update check failed", err)
	}

	c := &cache{
		LastCheck:       time.Now(),
		UpdateAvailable: hasUpdate && err == nil,
	}
	if release != nil {
		c.LatestVersion = release.Version
	}
	saveCache(c)

	if err != nil || !hasUpdate {
		return ""
	}
	return formatUpdateNotice(currentVersion, release.Version, DetectInstallMethod())
}

// isNewerVersion reports whether version a is a greater semver than b.
// Unparseable versions are never newer.
func isNewerVersion(a, b string) bool {
	av, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return av.GreaterThan(bv)
}

func formatUpdateNotice(current, latest string, method InstallMethod) string {
	return fmt.Sprintf("Update available: %s -> %s (%s)", current, latest, UpdateInstructions(method))
}
