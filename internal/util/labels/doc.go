// Package labels builds the metadata map attached to compute instances.
//
// Every instance carries the managing tool, the run that created it and the
// network it was booted on, so a later listing can tell which servers belong
// to which provisioning run.
package labels
