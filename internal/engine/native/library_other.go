//go:build !linux && !darwin && !windows

package native

const defaultLibraryName = "libbass.so"
