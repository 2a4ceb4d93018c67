package native

const defaultLibraryName = "bass.dll"
