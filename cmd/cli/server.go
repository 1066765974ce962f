package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/yourusername/downtube-go/internal/domain"
)

const (
	serverBinary       = "downtube-server"
	serverStartTimeout = 10 * time.Second
	serverPollInterval = 200 * time.Millisecond
)

// serverControl finds and starts the status server
type serverControl struct {
	baseURL    string
	configPath string
	client     *http.Client
}

func newServerControl(config domain.ServerConfig, configPath string) *serverControl {
	return &serverControl{
		baseURL:    fmt.Sprintf("http://%s:%d", config.Host, config.Port),
		configPath: configPath,
		client:     &http.Client{Timeout: 1 * time.Second},
	}
}

// isRunning checks if a server answers health checks
func (s *serverControl) isRunning() bool {
	resp, err := s.client.Get(s.baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// findServerBinary locates the server next to the CLI, on PATH, or in common install locations
func findServerBinary() (string, error) {
	execPath, err := os.Executable()
	if err == nil {
		serverPath := filepath.Join(filepath.Dir(execPath), serverBinary)
		if _, err := os.Stat(serverPath); err == nil {
			return serverPath, nil
		}
	}

	if serverPath, err := exec.LookPath(serverBinary); err == nil {
		return serverPath, nil
	}

	home, _ := os.UserHomeDir()
	commonPaths := []string{
		filepath.Join("/usr/local/bin", serverBinary),
		filepath.Join("/usr/bin", serverBinary),
		filepath.Join(home, "go", "bin", serverBinary),
		filepath.Join(home, ".local", "bin", serverBinary),
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s binary not found", serverBinary)
}

// startBackground starts the server as a detached process
func (s *serverControl) startBackground() error {
	serverPath, err := findServerBinary()
	if err != nil {
		return err
	}

	var args []string
	if s.configPath != "" {
		args = append(args, "--config", s.configPath)
	}

	cmd := exec.Command(serverPath, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// waitReady polls the server until it answers or the timeout passes
func (s *serverControl) waitReady() error {
	deadline := time.Now().Add(serverStartTimeout)

	for time.Now().Before(deadline) {
		if s.isRunning() {
			return nil
		}
		time.Sleep(serverPollInterval)
	}

	return fmt.Errorf("server did not start within %v", serverStartTimeout)
}

// ensureRunning starts the server unless one is already up
func (s *serverControl) ensureRunning(out io.Writer) error {
	if s.isRunning() {
		fmt.Fprintln(out, "Server already running")
		return nil
	}

	fmt.Fprintln(out, "Server not running, starting...")

	if err := s.startBackground(); err != nil {
		return err
	}
	if err := s.waitReady(); err != nil {
		return err
	}

	fmt.Fprintln(out, "Server started successfully")
	return nil
}
