//go:build symdebug

package gosymcore

const checkCanonical = true
