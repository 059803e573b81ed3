// Command ktc is a tiling Wayland compositor: it owns the DRM/KMS
// scanout device (or a headless software canvas when none is probed),
// advertises the core and wlroots-extension Wayland globals, and
// drives the single-threaded compositor loop against the wayland,
// libinput, IPC and session-signal file descriptors.
package main

func main() {
	Execute()
}
