package buffer

import "golang.org/x/sys/unix"

func closeFd(fd int) error {
	if fd < 0 {
		return nil
	}
	return unix.Close(fd)
}

// DupFd duplicates fd so the compositor can retain a reference
// independent of the client's own copy, which it remains free to close.
func DupFd(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
}
