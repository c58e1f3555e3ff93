//go:build !storagedebug

package buf

// Debug enables extra consistency checks. Build with -tags storagedebug to
// turn it on.
const Debug = false
