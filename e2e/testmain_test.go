//go:build e2e && unix

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"
)

// baseURL points at the development endpoint shared by all tests
var baseURL string

func TestMain(m *testing.M) {
	e2eDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Failed to get working directory: %v\n", err)
		os.Exit(1)
	}
	binPath = e2eDir + "/cosinnus_e2e"

	// Build the test binary from the parent directory
	fmt.Println("Building test binary from main project...")
	build := exec.Command("go", "build", "-o", binPath, ".")
	build.Dir = ".."
	if err := build.Run(); err != nil {
		fmt.Printf("Failed to build test binary: %v\n", err)
		os.Exit(1)
	}

	server, err := startServer()
	if err != nil {
		fmt.Printf("Failed to start development endpoint: %v\n", err)
		os.Remove(binPath)
		os.Exit(1)
	}

	code := m.Run()

	_ = server.Process.Kill()
	_, _ = server.Process.Wait()
	os.Remove(binPath)
	os.Exit(code)
}

// startServer runs "cosinnus serve" on a free port and waits for its health check
func startServer() (*exec.Cmd, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	addr := l.Addr().String()
	l.Close()

	server := exec.Command(binPath, "serve", "--addr", addr)
	server.Env = append(os.Environ(), "COSINNUS_LOG_FILE=")
	if err := server.Start(); err != nil {
		return nil, err
	}
	baseURL = "http://" + addr

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return server, nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	_ = server.Process.Kill()
	return nil, fmt.Errorf("no health response from %s", baseURL)
}
