//go:build motiondebug

package motion

import "fmt"

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("motion: "+format, args...))
	}
}
