//go:build storagedebug

package buf

// Debug enables extra consistency checks.
const Debug = true
