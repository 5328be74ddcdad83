//go:build !unix

package dispatch

func isBrokenPipe(error) bool {
	return false
}
