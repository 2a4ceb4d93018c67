package native

const defaultLibraryName = "libbass.dylib"
