// Package fakecloud is an in-process control plane for end-to-end tests.
//
// It serves the identity, network, compute and image endpoints used by the
// provisioner under the default endpoint paths, keeps created objects in
// memory, and records every call in an ordered trace such as
//
//	auth
//	list(networks)
//	create(network, blue)
//	create(subnet, blue_subnet, net-blue, 10.0.0.0/24)
package fakecloud

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/util/keyfile"
)

// Default credentials and token.
const (
	Username = "admin"
	Password = "openstack"
	Token    = "tok1"
)

type collection struct {
	path     string
	plural   string
	singular string
	nested   bool
	readOnly bool
}

var (
	colNetworks   = collection{path: "networks", plural: "networks", singular: "network"}
	colSubnets    = collection{path: "subnets", plural: "subnets", singular: "subnet"}
	colRouters    = collection{path: "routers", plural: "routers", singular: "router"}
	colFIPs       = collection{path: "floatingips", plural: "floatingips", singular: "floatingip"}
	colSecGroups  = collection{path: "security-groups", plural: "security_groups", singular: "security_group"}
	colRules      = collection{path: "security-group-rules", plural: "security_group_rules", singular: "security_group_rule"}
	colServers    = collection{path: "servers", plural: "servers", singular: "server"}
	colKeypairs   = collection{path: "os-keypairs", plural: "keypairs", singular: "keypair", nested: true}
	colFlavors    = collection{path: "flavors", plural: "flavors", singular: "flavor", readOnly: true}
	colImages     = collection{path: "images", plural: "images", singular: "image", readOnly: true}
	colUsers      = collection{path: "users", plural: "users", singular: "user", readOnly: true}
	networkColls  = []collection{colNetworks, colSubnets, colRouters, colFIPs, colSecGroups, colRules}
	computeColls  = []collection{colServers, colKeypairs, colFlavors}
	identityColls = []collection{colUsers}
	imageColls    = []collection{colImages}
)

type failure struct {
	status int
	body   string
}

// Cloud is a fake control plane.
type Cloud struct {
	srv *httptest.Server

	mu         sync.Mutex
	trace      []string
	username   string
	password   string
	token      string
	objects    map[string][]map[string]any
	interfaces map[string][]string
	polls      map[string]int
	buildPolls int
	statuses   map[string]string
	failures   map[string]failure
	seq        int
}

// Option configures a Cloud.
type Option func(*Cloud)

// WithCredentials sets the accepted username and password.
func WithCredentials(username, password string) Option {
	return func(c *Cloud) { c.username, c.password = username, password }
}

// WithToken sets the issued token. An empty token makes authentication
// answer 201 without the X-Subject-Token header.
func WithToken(token string) Option {
	return func(c *Cloud) { c.token = token }
}

// WithNetwork seeds an existing network.
func WithNetwork(name, id string) Option {
	return func(c *Cloud) {
		c.objects[colNetworks.plural] = append(c.objects[colNetworks.plural],
			map[string]any{"id": id, "name": name, "status": "ACTIVE", "admin_state_up": true})
	}
}

// WithSubnet seeds an existing subnet.
func WithSubnet(name, id, networkID, cidr string) Option {
	return func(c *Cloud) {
		c.objects[colSubnets.plural] = append(c.objects[colSubnets.plural],
			map[string]any{"id": id, "name": name, "network_id": networkID, "cidr": cidr, "ip_version": 4})
	}
}

// WithRouter seeds an existing router.
func WithRouter(name, id string) Option {
	return func(c *Cloud) {
		c.objects[colRouters.plural] = append(c.objects[colRouters.plural],
			map[string]any{"id": id, "name": name, "status": "ACTIVE"})
	}
}

// WithServer seeds an existing ACTIVE server.
func WithServer(name, id string) Option {
	return func(c *Cloud) {
		c.objects[colServers.plural] = append(c.objects[colServers.plural],
			map[string]any{"id": id, "name": name, "status": "ACTIVE", "addresses": map[string]any{}})
	}
}

// WithBuildPolls sets how many GETs a new server answers with BUILD before
// turning ACTIVE.
func WithBuildPolls(n int) Option {
	return func(c *Cloud) { c.buildPolls = n }
}

// WithServerStatus pins the status reported for the server named name once
// its BUILD polls are used up, e.g. ERROR, or BUILD to never become ready.
func WithServerStatus(name, status string) Option {
	return func(c *Cloud) { c.statuses[name] = status }
}

// WithFailure answers the call whose trace entry equals call with status
// and body instead of handling it. The call is still traced.
func WithFailure(call string, status int, body string) Option {
	return func(c *Cloud) { c.failures[call] = failure{status: status, body: body} }
}

// New starts a fake control plane. Close it when done.
func New(opts ...Option) *Cloud {
	c := &Cloud{
		username:   Username,
		password:   Password,
		token:      Token,
		objects:    make(map[string][]map[string]any),
		interfaces: make(map[string][]string),
		polls:      make(map[string]int),
		statuses:   make(map[string]string),
		failures:   make(map[string]failure),
	}
	c.objects[colImages.plural] = []map[string]any{{"id": "img-cirros", "name": config.DefaultImage, "status": "active"}}
	c.objects[colFlavors.plural] = []map[string]any{{"id": "flv-tiny", "name": config.DefaultFlavor, "vcpus": 1, "ram": 512, "disk": 1}}
	c.objects[colUsers.plural] = []map[string]any{{"id": "user-admin", "name": Username, "domain_id": "default", "enabled": true}}
	for _, opt := range opts {
		opt(c)
	}
	c.srv = httptest.NewServer(c.routes())
	return c
}

// Start starts a fake control plane closed at the end of the test.
func Start(t testing.TB, opts ...Option) *Cloud {
	t.Helper()
	c := New(opts...)
	t.Cleanup(c.Close)
	return c
}

// Close shuts the server down.
func (c *Cloud) Close() { c.srv.Close() }

// URL returns the base URL.
func (c *Cloud) URL() string { return c.srv.URL }

// Config returns the default configuration pointed at this control plane.
func (c *Cloud) Config() *config.Config {
	cfg := config.Default()
	u, _ := url.Parse(c.srv.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	cfg.ControlPlane.Scheme = u.Scheme
	cfg.ControlPlane.Host = host
	cfg.ControlPlane.Port, _ = strconv.Atoi(port)
	return cfg
}

// Trace returns a copy of the call trace.
func (c *Cloud) Trace() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.trace...)
}

// Count returns how many trace entries start with prefix.
func (c *Cloud) Count(prefix string) int {
	n := 0
	for _, e := range c.Trace() {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Objects returns copies of the stored objects of a collection, keyed by
// plural name such as "networks".
func (c *Cloud) Objects(plural string) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.objects[plural]))
	for _, o := range c.objects[plural] {
		cp := make(map[string]any, len(o))
		for k, v := range o {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}

// RouterInterfaces returns the subnet ids attached to a router.
func (c *Cloud) RouterInterfaces(routerID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.interfaces[routerID]...)
}

func (c *Cloud) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/identity/v3/auth/tokens", c.authenticate)

	r.Group(func(r chi.Router) {
		r.Use(c.requireToken)
		c.mount(r, "/identity/v3", identityColls)
		c.mount(r, "/network/v2.0", networkColls)
		c.mount(r, "/compute/v2.1", computeColls)
		c.mount(r, "/image/v2", imageColls)

		r.Put("/network/v2.0/routers/{id}/add_router_interface", c.addRouterInterface)
		r.Get("/compute/v2.1/servers/{id}", c.getServer)
		r.Post("/compute/v2.1/servers/{id}/action", c.serverAction)
		r.Post("/compute/v2.1/servers/{id}/metadata", c.serverMetadata)
	})
	return r
}

func (c *Cloud) mount(r chi.Router, prefix string, colls []collection) {
	for _, col := range colls {
		r.Get(prefix+"/"+col.path, c.list(col))
		if !col.readOnly {
			r.Post(prefix+"/"+col.path, c.create(col))
		}
	}
}

func (c *Cloud) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		ok := c.token != "" && r.Header.Get("X-Auth-Token") == c.token
		c.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "message": "The request you have made requires authentication."}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// begin records call and reports an injected failure for it. It must be
// called with c.mu held.
func (c *Cloud) begin(w http.ResponseWriter, call string) bool {
	c.trace = append(c.trace, call)
	if f, ok := c.failures[call]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return true
	}
	return false
}

func (c *Cloud) nextID(prefix string) string {
	c.seq++
	return fmt.Sprintf("%s-%d", prefix, c.seq)
}

func (c *Cloud) find(plural, id string) map[string]any {
	for _, o := range c.objects[plural] {
		if o["id"] == id {
			return o
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

type authBody struct {
	Auth struct {
		Identity struct {
			Password struct {
				User struct {
					Name     string `json:"name"`
					Password string `json:"password"`
				} `json:"user"`
			} `json:"password"`
		} `json:"identity"`
		Scope struct {
			Project struct {
				Name string `json:"name"`
			} `json:"project"`
		} `json:"scope"`
	} `json:"auth"`
}

func (c *Cloud) authenticate(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.begin(w, "auth") {
		return
	}

	var body authBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"code": 400, "message": err.Error()}})
		return
	}
	user := body.Auth.Identity.Password.User
	if user.Name != c.username || user.Password != c.password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "message": "The request you have made requires authentication."}})
		return
	}

	if c.token != "" {
		w.Header().Set("X-Subject-Token", c.token)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": map[string]any{
		"expires_at": "2099-01-01T00:00:00.000000Z",
		"user":       map[string]any{"id": "user-admin", "name": user.Name},
		"project":    map[string]any{"id": "project-1", "name": body.Auth.Scope.Project.Name},
	}})
}

func (c *Cloud) list(col collection) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.begin(w, "list("+col.plural+")") {
			return
		}

		items := make([]any, 0, len(c.objects[col.plural]))
		for _, o := range c.objects[col.plural] {
			if col.nested {
				items = append(items, map[string]any{col.singular: withoutPrivateKey(o)})
				continue
			}
			items = append(items, o)
		}
		writeJSON(w, http.StatusOK, map[string]any{col.plural: items})
	}
}

func withoutPrivateKey(o map[string]any) map[string]any {
	cp := make(map[string]any, len(o))
	for k, v := range o {
		if k != "private_key" {
			cp[k] = v
		}
	}
	return cp
}

func (c *Cloud) create(col collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			writeJSON(w, http.StatusBadRequest, badRequest("malformed body"))
			return
		}
		obj, ok := envelope[col.singular]
		if !ok {
			writeJSON(w, http.StatusBadRequest, badRequest("missing "+col.singular))
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.begin(w, createCall(col, obj)) {
			return
		}

		status, resp := c.store(col, obj)
		writeJSON(w, status, resp)
	}
}

func badRequest(msg string) map[string]any {
	return map[string]any{"NeutronError": map[string]any{"type": "HTTPBadRequest", "message": msg}}
}

// createCall renders the trace entry for a create.
func createCall(col collection, obj map[string]any) string {
	switch col.singular {
	case "subnet":
		return fmt.Sprintf("create(subnet, %s, %s, %s)", str(obj, "name"), str(obj, "network_id"), str(obj, "cidr"))
	case "router":
		gw, _ := obj["external_gateway_info"].(map[string]any)
		return fmt.Sprintf("create(router, %s, %s)", str(obj, "name"), str(gw, "network_id"))
	case "server":
		var netID string
		if nets, _ := obj["networks"].([]any); len(nets) > 0 {
			if n, _ := nets[0].(map[string]any); n != nil {
				netID = str(n, "uuid")
			}
		}
		return fmt.Sprintf("create(server, %s, %s)", str(obj, "name"), netID)
	case "floatingip":
		return fmt.Sprintf("create(floatingip, %s)", str(obj, "floating_network_id"))
	case "security_group_rule":
		return fmt.Sprintf("create(security_group_rule, %s)", str(obj, "protocol"))
	}
	return fmt.Sprintf("create(%s, %s)", col.singular, str(obj, "name"))
}

// store assigns an id and server-side fields, saves obj, and returns the
// response. It must be called with c.mu held.
func (c *Cloud) store(col collection, obj map[string]any) (int, map[string]any) {
	status := http.StatusCreated
	switch col.singular {
	case "network":
		obj["id"] = c.uniqueID("net-" + str(obj, "name"))
		obj["status"] = "ACTIVE"
		obj["subnets"] = []any{}
	case "subnet":
		cidr := str(obj, "cidr")
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return http.StatusBadRequest, badRequest(fmt.Sprintf("Invalid input for cidr. Reason: '%s' is not a valid IP subnet.", cidr))
		}
		network := c.find(colNetworks.plural, str(obj, "network_id"))
		if network == nil {
			return http.StatusNotFound, map[string]any{"NeutronError": map[string]any{"type": "NetworkNotFound", "message": "Network " + str(obj, "network_id") + " could not be found."}}
		}
		obj["id"] = c.uniqueID("sub-" + strings.TrimSuffix(str(obj, "name"), "_subnet"))
		obj["gateway_ip"] = nthHost(ipNet, 1)
		obj["enable_dhcp"] = true
		subnets, _ := network["subnets"].([]any)
		network["subnets"] = append(subnets, obj["id"])
	case "router":
		obj["id"] = c.uniqueID("router-" + str(obj, "name"))
		obj["status"] = "ACTIVE"
	case "floatingip":
		n := len(c.objects[colFIPs.plural])
		obj["id"] = c.nextID("fip")
		obj["floating_ip_address"] = fmt.Sprintf("172.24.4.%d", 10+n)
		obj["status"] = "DOWN"
	case "security_group":
		obj["id"] = c.uniqueID("sg-" + str(obj, "name"))
		obj["security_group_rules"] = []any{}
	case "security_group_rule":
		obj["id"] = c.nextID("rule-" + str(obj, "protocol"))
	case "server":
		return c.storeServer(obj)
	case "keypair":
		return c.storeKeypair(obj)
	}
	c.objects[col.plural] = append(c.objects[col.plural], obj)
	return status, map[string]any{col.singular: obj}
}

// uniqueID returns base, or base with a numeric suffix if base is taken.
func (c *Cloud) uniqueID(base string) string {
	id := base
	for i := 2; c.taken(id); i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	return id
}

func (c *Cloud) taken(id string) bool {
	for _, objs := range c.objects {
		for _, o := range objs {
			if o["id"] == id {
				return true
			}
		}
	}
	return false
}

func nthHost(ipNet *net.IPNet, n int) string {
	ip := ipNet.IP.To4()
	if ip == nil {
		return ""
	}
	out := make(net.IP, len(ip))
	copy(out, ip)
	out[3] += byte(n)
	return out.String()
}

func (c *Cloud) storeServer(obj map[string]any) (int, map[string]any) {
	id := c.uniqueID("srv-" + str(obj, "name"))
	server := map[string]any{
		"id":        id,
		"name":      str(obj, "name"),
		"status":    "BUILD",
		"metadata":  obj["metadata"],
		"addresses": map[string]any{},
	}
	if server["metadata"] == nil {
		server["metadata"] = map[string]any{}
	}
	if nets, _ := obj["networks"].([]any); len(nets) > 0 {
		n, _ := nets[0].(map[string]any)
		if network := c.find(colNetworks.plural, str(n, "uuid")); network != nil {
			server["addresses"] = map[string]any{
				str(network, "name"): []any{map[string]any{"addr": c.fixedIP(str(network, "id")), "version": 4, "OS-EXT-IPS:type": "fixed"}},
			}
		}
	}
	c.objects[colServers.plural] = append(c.objects[colServers.plural], server)
	return http.StatusAccepted, map[string]any{"server": map[string]any{"id": id, "links": []any{}}}
}

// fixedIP picks the next address in the first subnet of networkID.
func (c *Cloud) fixedIP(networkID string) string {
	for _, sn := range c.objects[colSubnets.plural] {
		if str(sn, "network_id") != networkID {
			continue
		}
		_, ipNet, err := net.ParseCIDR(str(sn, "cidr"))
		if err != nil {
			break
		}
		used := 0
		for _, srv := range c.objects[colServers.plural] {
			addrs, _ := srv["addresses"].(map[string]any)
			used += len(addrs)
		}
		return nthHost(ipNet, 10+used)
	}
	return ""
}

func (c *Cloud) storeKeypair(obj map[string]any) (int, map[string]any) {
	kp := map[string]any{
		"name":    str(obj, "name"),
		"user_id": "user-admin",
	}
	if pub := str(obj, "public_key"); pub != "" {
		kp["public_key"] = pub
	} else {
		pair, err := keyfile.Generate(1024)
		if err != nil {
			return http.StatusInternalServerError, map[string]any{"computeFault": map[string]any{"message": err.Error()}}
		}
		fp, _ := keyfile.Fingerprint(pair.PrivateKey)
		kp["public_key"] = string(pair.PublicKey)
		kp["fingerprint"] = fp
		kp["private_key"] = string(pair.PrivateKey)
	}
	c.objects[colKeypairs.plural] = append(c.objects[colKeypairs.plural], kp)
	return http.StatusOK, map[string]any{"keypair": kp}
}

func (c *Cloud) getServer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.begin(w, "get(server, "+id+")") {
		return
	}

	server := c.find(colServers.plural, id)
	if server == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"itemNotFound": map[string]any{"code": 404, "message": "Instance " + id + " could not be found."}})
		return
	}

	c.polls[id]++
	if server["status"] == "BUILD" && c.polls[id] > c.buildPolls {
		final := "ACTIVE"
		if s, ok := c.statuses[str(server, "name")]; ok {
			final = s
		}
		server["status"] = final
		if final == "ERROR" {
			server["fault"] = map[string]any{"code": 500, "message": "No valid host was found."}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"server": server})
}

func (c *Cloud) serverAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body map[string]map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("malformed body"))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var call string
	switch {
	case body["addFloatingIp"] != nil:
		call = fmt.Sprintf("attach(floatingip, %s, %s)", str(body["addFloatingIp"], "address"), id)
	case body["addSecurityGroup"] != nil:
		call = fmt.Sprintf("attach(security_group, %s, %s)", str(body["addSecurityGroup"], "name"), id)
	default:
		call = fmt.Sprintf("action(server, %s)", id)
	}
	if c.begin(w, call) {
		return
	}

	server := c.find(colServers.plural, id)
	if server == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"itemNotFound": map[string]any{"code": 404, "message": "Instance " + id + " could not be found."}})
		return
	}
	if fip := body["addFloatingIp"]; fip != nil {
		for _, o := range c.objects[colFIPs.plural] {
			if o["floating_ip_address"] == fip["address"] {
				o["status"] = "ACTIVE"
				o["port_id"] = "port-" + id
			}
		}
	}
	if sg := body["addSecurityGroup"]; sg != nil {
		groups, _ := server["security_groups"].([]any)
		server["security_groups"] = append(groups, map[string]any{"name": str(sg, "name")})
	}
	w.WriteHeader(http.StatusAccepted)
}

func (c *Cloud) serverMetadata(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("malformed body"))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	call := fmt.Sprintf("action(server, %s)", id)
	if name, ok := body.Metadata["key_name"]; ok {
		call = fmt.Sprintf("attach(keypair, %s, %s)", name, id)
	}
	if c.begin(w, call) {
		return
	}

	server := c.find(colServers.plural, id)
	if server == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"itemNotFound": map[string]any{"code": 404, "message": "Instance " + id + " could not be found."}})
		return
	}
	md, _ := server["metadata"].(map[string]any)
	if md == nil {
		md = map[string]any{}
	}
	for k, v := range body.Metadata {
		md[k] = v
	}
	server["metadata"] = md
	writeJSON(w, http.StatusOK, map[string]any{"metadata": md})
}

func (c *Cloud) addRouterInterface(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		SubnetID string `json:"subnet_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, badRequest("malformed body"))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.begin(w, fmt.Sprintf("attach(router, %s, %s)", id, body.SubnetID)) {
		return
	}

	if c.find(colRouters.plural, id) == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"NeutronError": map[string]any{"type": "RouterNotFound", "message": "Router " + id + " could not be found"}})
		return
	}
	subnet := c.find(colSubnets.plural, body.SubnetID)
	if subnet == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"NeutronError": map[string]any{"type": "SubnetNotFound", "message": "Subnet " + body.SubnetID + " could not be found"}})
		return
	}
	c.interfaces[id] = append(c.interfaces[id], body.SubnetID)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         id,
		"subnet_id":  body.SubnetID,
		"network_id": str(subnet, "network_id"),
		"port_id":    c.nextID("port"),
	})
}
