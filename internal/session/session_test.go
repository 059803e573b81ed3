package session

import (
	"os/exec"
	"testing"
	"time"
)

func TestTTYPathFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if got := ttyPath(); got == "" {
		t.Fatal("ttyPath returned empty string")
	}
}

func TestTerminateChildren(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep unavailable: %v", err)
	}

	s := &Session{}
	s.RegisterChild(cmd.Process.Pid)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	s.terminateChildren()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("child was not terminated")
	}
}
