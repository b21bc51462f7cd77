//go:build !motiondebug

package motion

// assertf checks a caller precondition. Release builds skip the check; build
// with -tags motiondebug to panic on violations.
func assertf(bool, string, ...any) {}
