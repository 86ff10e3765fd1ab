package openstack

import "context"

// Rule directions and ether types.
const (
	DirectionIngress = "ingress"
	DirectionEgress  = "egress"
	EtherTypeIPv4    = "IPv4"
	ProtocolTCP      = "tcp"
	ProtocolICMP     = "icmp"
)

// SecurityGroupRuleOpts holds the parameters for one rule. Nil port bounds
// leave the rule unrestricted by port.
type SecurityGroupRuleOpts struct {
	SecurityGroupID string
	Direction       string
	EtherType       string
	Protocol        string
	PortRangeMin    *int
	PortRangeMax    *int
}

type securityGroupCreateParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type securityGroupRuleCreateParams struct {
	SecurityGroupID string `json:"security_group_id"`
	Direction       string `json:"direction"`
	EtherType       string `json:"ethertype"`
	Protocol        string `json:"protocol,omitempty"`
	PortRangeMin    *int   `json:"port_range_min,omitempty"`
	PortRangeMax    *int   `json:"port_range_max,omitempty"`
}

// CreateSecurityGroup always creates a new group.
func (c *RealClient) CreateSecurityGroup(ctx context.Context, name, description string) (*SecurityGroup, error) {
	return createTyped[SecurityGroup](ctx, c, KindSecurityGroup, securityGroupCreateParams{Name: name, Description: description})
}

func (c *RealClient) CreateSecurityGroupRule(ctx context.Context, opts SecurityGroupRuleOpts) (*SecurityGroupRule, error) {
	etherType := opts.EtherType
	if etherType == "" {
		etherType = EtherTypeIPv4
	}
	return createTyped[SecurityGroupRule](ctx, c, KindSecurityGroupRule, securityGroupRuleCreateParams{
		SecurityGroupID: opts.SecurityGroupID,
		Direction:       opts.Direction,
		EtherType:       etherType,
		Protocol:        opts.Protocol,
		PortRangeMin:    opts.PortRangeMin,
		PortRangeMax:    opts.PortRangeMax,
	})
}
