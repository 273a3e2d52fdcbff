//go:build windows

package fileops

import (
	"errors"
	"syscall"
)

// ERROR_NOT_SAME_DEVICE
const errNotSameDevice = syscall.Errno(17)

func crossDevice(err error) bool {
	return errors.Is(err, errNotSameDevice)
}
