package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	imageBuildOnce  sync.Once
	imageBuildError error
	portalContainer *PortalContainer
	portalOnce      sync.Once
	portalStartErr  error
)

// PortalContainer wraps a testcontainers environment: report API stub + portal.
type PortalContainer struct {
	portal  testcontainers.Container
	stub    testcontainers.Container
	network *testcontainers.DockerNetwork
	ctx     context.Context
	cancel  context.CancelFunc
	url     string
}

// URL returns the base URL of the running portal container.
func (p *PortalContainer) URL() string {
	return p.url
}

// CollectLogs saves container stdout/stderr to dir/.
func (p *PortalContainer) CollectLogs(dir string) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	collectContainerLog := func(c testcontainers.Container, name string) {
		if c == nil {
			return
		}
		reader, err := c.Logs(ctx)
		if err != nil {
			return
		}
		defer reader.Close()

		logs, err := io.ReadAll(reader)
		if err != nil {
			return
		}
		os.WriteFile(filepath.Join(dir, name+".log"), logs, 0644)
	}

	collectContainerLog(p.portal, "xtrillion-portal")
	collectContainerLog(p.stub, "report-stub")
}

// Cleanup tears down all containers and the network.
// Uses a fresh context for teardown in case the main context expired.
func (p *PortalContainer) Cleanup() {
	if p == nil {
		return
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if p.portal != nil {
		p.portal.Terminate(cleanupCtx)
	}
	if p.stub != nil {
		p.stub.Terminate(cleanupCtx)
	}
	if p.network != nil {
		p.network.Remove(cleanupCtx)
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// FindProjectRoot walks up from the working directory to the directory
// holding go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

// buildImage builds repo:test from a Dockerfile under tests/docker.
func buildImage(ctx context.Context, dockerfile, repo string) error {
	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: testcontainers.FromDockerfile{
				Context:    FindProjectRoot(),
				Dockerfile: dockerfile,
				Repo:       repo,
				Tag:        "test",
				KeepImage:  true,
			},
		},
	}

	_, err := testcontainers.GenericContainer(ctx, req)
	// Image may have built successfully even if container creation failed
	if err != nil && strings.Contains(err.Error(), repo+":test") {
		return nil
	}
	return err
}

// buildImages builds the portal and report stub images once per test run.
func buildImages() error {
	imageBuildOnce.Do(func() {
		ctx := context.Background()
		if err := buildImage(ctx, "tests/docker/Dockerfile.portal", "xtrillion-portal"); err != nil {
			imageBuildError = fmt.Errorf("build portal image: %w", err)
			return
		}
		if err := buildImage(ctx, "tests/docker/Dockerfile.reportstub", "xtrillion-reportstub"); err != nil {
			imageBuildError = fmt.Errorf("build report stub image: %w", err)
		}
	})
	return imageBuildError
}

// startTestEnvironment creates the 2-container environment:
// report API stub → xtrillion-portal, on a shared Docker network.
func startTestEnvironment() (*PortalContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)

	testNet, err := network.New(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create docker network: %w", err)
	}

	stubCtr, err := testcontainers.Run(ctx, "xtrillion-reportstub:test",
		testcontainers.WithExposedPorts("8080/tcp"),
		network.WithNetwork([]string{"reports"}, testNet),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("8080/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start report stub: %w", err)
	}

	// Container IP bypasses Docker DNS for CGO_ENABLED=0 builds
	stubIP, err := stubCtr.ContainerIP(ctx)
	if err != nil {
		stubCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get report stub IP: %w", err)
	}

	portalCtr, err := testcontainers.Run(ctx, "xtrillion-portal:test",
		testcontainers.WithExposedPorts("8080/tcp"),
		network.WithNetwork([]string{"xtrillion-portal"}, testNet),
		testcontainers.WithEnv(map[string]string{
			"XTRILLION_REPORTS_URL": fmt.Sprintf("http://%s:8080/process_json", stubIP),
			"XTRILLION_SERVER_HOST": "0.0.0.0",
			"XTRILLION_SERVER_PORT": "8080",
			"XTRILLION_ENV":         "dev",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort("8080/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		stubCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start xtrillion-portal: %w", err)
	}

	mappedPort, err := portalCtr.MappedPort(ctx, "8080/tcp")
	if err != nil {
		portalCtr.Terminate(ctx)
		stubCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal mapped port: %w", err)
	}

	host, err := portalCtr.Host(ctx)
	if err != nil {
		portalCtr.Terminate(ctx)
		stubCtr.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal host: %w", err)
	}

	return &PortalContainer{
		portal:  portalCtr,
		stub:    stubCtr,
		network: testNet,
		ctx:     ctx,
		cancel:  cancel,
		url:     fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

// StartPortal starts the test environment (one per test process).
// Returns nil when XTRILLION_TEST_URL is set (manual mode, tests use the existing server).
func StartPortal(t *testing.T) *PortalContainer {
	t.Helper()
	p, err := StartPortalForTestMain()
	if err != nil {
		t.Fatalf("Failed to start test environment: %v", err)
	}
	return p
}

// StartPortalForTestMain starts the test environment for use in TestMain (no *testing.T).
// Returns (nil, nil) when XTRILLION_TEST_URL is set (manual mode).
func StartPortalForTestMain() (*PortalContainer, error) {
	if os.Getenv("XTRILLION_TEST_URL") != "" {
		return nil, nil
	}

	portalOnce.Do(func() {
		if err := buildImages(); err != nil {
			portalStartErr = err
			return
		}
		portalContainer, portalStartErr = startTestEnvironment()
	})

	if portalStartErr != nil {
		return nil, portalStartErr
	}
	return portalContainer, nil
}
