// Package naming derives default resource names from network names.
//
// A topology declared only by its network names ("blue", "red", "public")
// still resolves to concrete subnet, instance and key file names through
// these helpers.
package naming
