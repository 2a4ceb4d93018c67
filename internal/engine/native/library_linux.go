package native

const defaultLibraryName = "libbass.so"
