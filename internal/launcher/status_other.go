//go:build !unix

package launcher

import "os"

func signalStatus(*os.ProcessState) (int, bool) {
	return 0, false
}
