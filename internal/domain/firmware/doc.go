// Package firmware contains the core domain types of the bundler.
//
// It defines the Ledger of compressed artifact names, the flat naming rule for
// artifacts, and the md5sum-style ChecksumLine appended to the deliverable.
package firmware
