package lisp

import "os"

// defaultStdout, defaultStderr, and defaultStdin back the Env stream
// accessors when no Config overrode them.
var (
	defaultStdout = os.Stdout
	defaultStderr = os.Stderr
	defaultStdin  = os.Stdin
)

// WithGensymSeed seeds the process-wide `gensym` counter, primarily useful
// in tests that want deterministic generated-symbol names.
func WithGensymSeed(n int) Config {
	return func(rt *runtime) { rt.gensymCounter = n }
}
