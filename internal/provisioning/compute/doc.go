// Package compute boots the three topology instances.
//
// Each instance resolves its image and flavor by name, is created on its
// role's network with run metadata, and is then polled until ACTIVE. The
// three create-and-wait chains run sequentially or on a bounded pool.
package compute
