//go:build !symdebug

package gosymcore

// checkCanonical enables canonical-form assertions in the raw node
// constructors. Build with -tags symdebug to turn it on.
const checkCanonical = false
