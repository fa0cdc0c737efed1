//go:build linux

// Package system switches the Linux console between text and graphics mode,
// so the kernel does not draw its cursor and messages over a frame on the framebuffer.
package system

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// consoles are tried in order: the active VT, then the current foreground console.
var consoles = []string{"/dev/tty", "/dev/tty0"}

func SetGraphicsMode() error { return setMode(kdGraphics) }

func RestoreTextMode() error { return setMode(kdText) }

func setMode(mode int) error {
	var errs []error
	for _, p := range consoles {
		if err := ioctlMode(p, mode); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("KDSETMODE %d: %w", mode, errors.Join(errs...))
}

func ioctlMode(path string, mode int) error {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	if err := unix.IoctlSetInt(fd, kdSetMode, mode); err != nil {
		return fmt.Errorf("ioctl on %s: %w", path, err)
	}
	return nil
}
