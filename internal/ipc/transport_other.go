//go:build !windows

package ipc

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/VibeProjects/tambourine-voice/internal/userutil"
)

// DefaultEndpoint returns the unix socket path to use. If the
// TAMBOURINE_PIPE environment variable is set, its value is used; otherwise
// a per-user default is constructed under the temp directory.
func DefaultEndpoint() string {
	if value := strings.TrimSpace(os.Getenv("TAMBOURINE_PIPE")); value != "" {
		return value
	}

	username := strings.TrimSpace(os.Getenv("USER"))
	if username == "" {
		if current, err := user.Current(); err == nil {
			username = current.Username
		}
	}
	return filepath.Join(os.TempDir(), "tambourine-voice-"+userutil.SanitizeUsername(username)+".sock")
}

func listenEndpoint(endpoint string) (net.Listener, error) {
	// A stale socket from a crashed instance blocks the bind. The single
	// instance lock already guarantees no live instance owns it.
	if err := os.Remove(endpoint); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("[ipc] failed to remove stale socket", "path", endpoint, "error", err)
	}
	return net.Listen("unix", endpoint)
}

func dialEndpoint(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", endpoint, timeout)
}
