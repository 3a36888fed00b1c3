// Package packager builds the Odin flashable AP bundle from a directory of firmware images.
//
// A run checks the external tools, removes leftovers of previous runs,
// compresses every .img and .bin file found below the working directory into
// its root with lz4, bundles the artifacts into a GNU tar archive with fixed
// metadata, appends the md5sum line and renames the result to the .tar.md5
// deliverable. Compressed artifacts are removed once the deliverable exists.
package packager
