// Package runtimepath locates the per-user runtime directory and the IPC
// socket inside it.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// EnvSocket overrides the IPC socket location.
	EnvSocket = "TILEWM_SOCKET"

	socketName = "tilewm.sock"
)

// Dir returns the runtime directory for the IPC socket: $XDG_RUNTIME_DIR,
// then /run/user/<uid>, then a private /tmp/tilewm-runtime-<uid> created on
// demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := strconv.Itoa(os.Getuid())
	if dir := filepath.Join("/run/user", uid); isDir(dir) {
		return dir, nil
	}
	dir := filepath.Join(os.TempDir(), "tilewm-runtime-"+uid)
	if err := ensurePrivate(dir); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ensurePrivate creates dir with mode 0700, or tightens an existing one.
// Other users must not be able to reach the socket.
func ensurePrivate(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return os.Chmod(dir, 0o700)
	}
	return nil
}

// SocketPath returns the daemon IPC socket path. $TILEWM_SOCKET wins over
// the runtime directory.
func SocketPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvSocket)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}
