package provisioning

// Step names in execution order.
const (
	StepValidation    = "validation"
	StepNetworks      = "networks"
	StepSubnets       = "subnets"
	StepRouter        = "router"
	StepInstances     = "instances"
	StepFloatingIP    = "floating-ip"
	StepSecurityGroup = "security-group"
	StepKeypair       = "keypair"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Step adapts a plain function to Phase.
type Step struct {
	StepName string
	Run      func(ctx *Context) error
}

// Name implements Phase.
func (s Step) Name() string { return s.StepName }

// Provision implements Phase.
func (s Step) Provision(ctx *Context) error { return s.Run(ctx) }

// KeyWriter persists private key material. It returns the key fingerprint.
// Implemented by util/keyfile.Save.
type KeyWriter interface {
	WriteKey(path string, privateKeyPEM []byte) (string, error)
}

// KeyWriterFunc adapts a function to KeyWriter.
type KeyWriterFunc func(path string, privateKeyPEM []byte) (string, error)

// WriteKey implements KeyWriter.
func (f KeyWriterFunc) WriteKey(path string, privateKeyPEM []byte) (string, error) {
	return f(path, privateKeyPEM)
}
