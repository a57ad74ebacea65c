//go:build !linux && !darwin

package usage

import "runtime"

func platformString() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}
