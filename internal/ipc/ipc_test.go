package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestServerAcceptAndReadCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ktc.sock")
	srv, err := Listen(path)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	cli, err := Dial(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	var fd int
	var ok bool
	for i := 0; i < 50; i++ {
		fd, ok, err = srv.AcceptOne()
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !ok {
		t.Fatal("never accepted connection")
	}

	if err := cli.Send(Command{Type: CommandSwitchWorkspace, Workspace: 2}); err != nil {
		t.Fatal(err)
	}

	var cmds []Command
	for i := 0; i < 50; i++ {
		cmds, _ = srv.ReadCommand(fd)
		if len(cmds) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(cmds) != 1 || cmds[0].Type != CommandSwitchWorkspace || cmds[0].Workspace != 2 {
		t.Fatalf("got %+v", cmds)
	}
}

func TestBroadcastAndClientNext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ktc.sock")
	srv, err := Listen(path)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	cli, err := Dial(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	for i := 0; i < 50; i++ {
		if _, ok, err := srv.AcceptOne(); err == nil && ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Broadcast(NewWorkspaceEvent([]WorkspaceInfo{{ID: 1, Name: "1"}}, 1))

	evt, err := cli.Next()
	if err != nil {
		t.Fatal(err)
	}
	if evt.Type != EventWorkspace || evt.ActiveWorkspace != 1 {
		t.Fatalf("got %+v", evt)
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ktc.sock")
	srv1, err := Listen(path)
	if err != nil {
		t.Fatal(err)
	}
	fd := srv1.Fd()
	_ = unix.Close(fd) // simulate an unclean shutdown: fd gone, file remains

	srv2, err := Listen(path)
	if err != nil {
		t.Fatalf("second Listen should recover stale socket file: %v", err)
	}
	srv2.Close()
}
