// Package image converts VM appliances into other image formats by driving
// external tools.
//
// Two conversions are supported. [Converter.ToDocker] unpacks an OVA,
// converts its VMDK disk to raw, mounts the largest partition read-only and
// imports the root filesystem with docker import. [Converter.ToVagrant]
// packages a registered VirtualBox VM as a Vagrant box and registers it.
//
// Every command goes through a [Runner] so the sequences can be tested
// without the tools installed.
package image
