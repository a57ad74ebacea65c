//go:build linux || darwin

package usage

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func platformString() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return genericPlatform()
	}
	return unix.ByteSliceToString(u.Sysname[:]) + "-" +
		unix.ByteSliceToString(u.Release[:]) + "-" +
		unix.ByteSliceToString(u.Machine[:])
}

func genericPlatform() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}
