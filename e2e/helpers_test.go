package e2e_test

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

const testSecret = "e2e-secret"

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "privmedia-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	pgCleanup()
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// TestUser is a statically configured user.
type TestUser struct {
	ID        string
	Staff     bool
	Superuser bool
}

// ServerConfig holds configuration for starting the privmedia server.
type ServerConfig struct {
	Port          int
	Mode          string // debug, production
	FileServer    string // direct, sendfile
	ServerOptions map[string]string
	Permissions   string // default, owner
	StoragePath   string
	UsersBackend  string // static, database
	Users         []TestUser
	DBType        string // sqlite, postgres
	DBDSN         string
	Metrics       bool
}

// buildBinary compiles the privmedia binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "privmedia")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/privmedia")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the root directory of the module.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// withDefaults fills in the fields a test leaves empty.
func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.Mode == "" {
		cfg.Mode = "production"
	}
	if cfg.FileServer == "" {
		cfg.FileServer = "direct"
	}
	if cfg.Permissions == "" {
		cfg.Permissions = "default"
	}
	if cfg.UsersBackend == "" {
		cfg.UsersBackend = "static"
	}
	if cfg.DBType == "" {
		cfg.DBType = "sqlite"
	}
	return cfg
}

// createConfigFile creates a temporary config file for the server.
// Returns the path to the config file.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	cfg = cfg.withDefaults()
	if cfg.DBDSN == "" {
		cfg.DBDSN = filepath.Join(t.TempDir(), "privmedia.db")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `server:
  port: %d
  mode: %s
  url_prefix: /private/

storage:
  path: "%s"

files:
  server: %s
  permissions: %s
`,
		cfg.Port,
		cfg.Mode,
		cfg.StoragePath,
		cfg.FileServer,
		cfg.Permissions,
	)

	if len(cfg.ServerOptions) > 0 {
		sb.WriteString("  server_options:\n")
		for k, v := range cfg.ServerOptions {
			fmt.Fprintf(&sb, "    %s: %q\n", k, v)
		}
	}

	fmt.Fprintf(&sb, `
database:
  type: %s
  dsn: "%s"

users:
  backend: %s
`, cfg.DBType, cfg.DBDSN, cfg.UsersBackend)

	if len(cfg.Users) > 0 {
		sb.WriteString("  inline:\n")
		for _, u := range cfg.Users {
			fmt.Fprintf(&sb, "    - id: %q\n      staff: %t\n      superuser: %t\n", u.ID, u.Staff, u.Superuser)
		}
	}

	fmt.Fprintf(&sb, `
auth:
  secret: %s

metrics:
  enabled: %t

log:
  level: error
`, testSecret, cfg.Metrics)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte(sb.String()), 0o600)
	require.NoError(t, err, "write config file")

	return configPath
}

// runCLI runs a privmedia subcommand against configPath and returns its
// stdout, trimmed.
func runCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()

	binary := buildBinary(t)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binary, append(args, "--config", configPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "privmedia %s: %s", strings.Join(args, " "), stderr.String())

	return strings.TrimSpace(stdout.String())
}

// uploadFile writes content to a temp file and uploads it to dest.
func uploadFile(t *testing.T, configPath, dest, content string) {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, filepath.Base(dest))
	require.NoError(t, os.WriteFile(src, []byte(content), 0o600))

	destDir := filepath.ToSlash(filepath.Dir(dest))
	args := []string{"upload", "-q", src}
	if destDir != "." {
		args = append(args, "--dest", destDir+"/")
	}
	runCLI(t, configPath, args...)
}

// startServer starts the privmedia binary with the given config file.
// Returns the base URL and a cleanup function that must be called to stop the server.
func startServer(t *testing.T, port int, configPath string) (string, func()) {
	t.Helper()

	binary := buildBinary(t)

	cmd := exec.Command(binary, "serve", "--config", configPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Start()
	require.NoError(t, err, "start server")

	baseURL := fmt.Sprintf("http://localhost:%d", port)

	waitForServer(t, baseURL, 10*time.Second)

	cleanup := func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	}

	return baseURL, cleanup
}

// waitForServer polls the health endpoint until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	addr := l.Addr().(*net.TCPAddr)
	port := addr.Port

	err = l.Close()
	require.NoError(t, err, "close port")

	return port
}

// get performs a GET with an optional bearer token and extra headers.
func get(t *testing.T, url, token string, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
