package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/imamik/stacktopo/internal/platform/openstack"
)

// ListKinds are the resource collections the list command can print.
var ListKinds = []string{"networks", "subnets", "servers", "routers", "users", "images", "flavors"}

// List prints one resource collection of the control plane as a table or,
// with asJSON, as the decoded JSON items.
func List(ctx context.Context, opts LoadOptions, kind string, asJSON bool) error {
	_, client, err := dial(ctx, opts)
	if err != nil {
		return err
	}

	header, rows, items, err := listRows(ctx, client, kind)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", kind, err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// listRows fetches kind and returns the table header, the rows and the
// typed items.
func listRows(ctx context.Context, client Client, kind string) ([]string, [][]string, any, error) {
	var rows [][]string
	switch kind {
	case "networks":
		items, err := client.ListNetworks(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list networks: %w", err)
		}
		for _, n := range items {
			rows = append(rows, []string{n.ID, n.Name, n.Status, fmt.Sprint(n.External)})
		}
		return []string{"ID", "NAME", "STATUS", "EXTERNAL"}, rows, items, nil
	case "subnets":
		items, err := client.ListSubnets(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list subnets: %w", err)
		}
		for _, s := range items {
			rows = append(rows, []string{s.ID, s.Name, s.NetworkID, s.CIDR})
		}
		return []string{"ID", "NAME", "NETWORK", "CIDR"}, rows, items, nil
	case "servers":
		items, err := client.ListServers(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list servers: %w", err)
		}
		for _, s := range items {
			rows = append(rows, []string{s.ID, s.Name, s.Status, serverAddresses(s)})
		}
		return []string{"ID", "NAME", "STATUS", "ADDRESSES"}, rows, items, nil
	case "routers":
		items, err := client.ListRouters(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list routers: %w", err)
		}
		for _, r := range items {
			gateway := ""
			if r.ExternalGatewayInfo != nil {
				gateway = r.ExternalGatewayInfo.NetworkID
			}
			rows = append(rows, []string{r.ID, r.Name, r.Status, gateway})
		}
		return []string{"ID", "NAME", "STATUS", "GATEWAY"}, rows, items, nil
	case "users":
		items, err := client.ListUsers(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range items {
			rows = append(rows, []string{u.ID, u.Name})
		}
		return []string{"ID", "NAME"}, rows, items, nil
	case "images":
		items, err := client.ListImages(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list images: %w", err)
		}
		for _, i := range items {
			rows = append(rows, []string{i.ID, i.Name, i.Status})
		}
		return []string{"ID", "NAME", "STATUS"}, rows, items, nil
	case "flavors":
		items, err := client.ListFlavors(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to list flavors: %w", err)
		}
		for _, f := range items {
			rows = append(rows, []string{f.ID, f.Name, fmt.Sprint(f.VCPUs), fmt.Sprint(f.RAM)})
		}
		return []string{"ID", "NAME", "VCPUS", "RAM"}, rows, items, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown resource kind %q (valid: %s)", kind, strings.Join(ListKinds, ", "))
	}
}

func serverAddresses(s openstack.Server) string {
	networks := make([]string, 0, len(s.Addresses))
	for name := range s.Addresses {
		networks = append(networks, name)
	}
	sort.Strings(networks)

	var parts []string
	for _, name := range networks {
		for _, a := range s.Addresses[name] {
			parts = append(parts, name+"="+a.Addr)
		}
	}
	return strings.Join(parts, ", ")
}
