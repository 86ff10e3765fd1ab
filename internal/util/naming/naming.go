package naming

import "fmt"

func Subnet(network string) string {
	return network + "_subnet"
}

// Instance names the VM booted on a network. position is the 1-based index
// of the network in the topology, so blue, red, public give blue_vm1,
// red_vm2, public_vm3.
func Instance(network string, position int) string {
	return fmt.Sprintf("%s_vm%d", network, position)
}

func KeyFile(keypair string) string {
	return keypair + ".pem"
}
