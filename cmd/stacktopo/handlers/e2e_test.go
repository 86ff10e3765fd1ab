package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/export"
	"github.com/imamik/stacktopo/internal/provisioning"
	"github.com/imamik/stacktopo/internal/testing/fakecloud"
	"github.com/imamik/stacktopo/internal/util/keyfile"
)

func readJSON(path string, v any) {
	GinkgoHelper()
	raw, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	Expect(json.Unmarshal(raw, v)).To(Succeed())
}

var _ = Describe("stacktopo against a fake control plane", func() {
	var (
		ctx   context.Context
		out   *bytes.Buffer
		dir   string
		cloud *fakecloud.Cloud
	)

	BeforeEach(func() {
		ctx = context.Background()
		DeferCleanup(saveFactories())
		out = isolate()
		dir = GinkgoT().TempDir()
	})

	start := func(opts ...fakecloud.Option) {
		cloud = fakecloud.New(opts...)
		DeferCleanup(cloud.Close)
	}

	Describe("create", func() {
		It("provisions the topology and writes every output", func() {
			start()

			Expect(Create(ctx, CreateOptions{Load: cloudOptions(cloud, dir)})).To(Succeed())

			Expect(cloud.Trace()[0]).To(Equal("auth"))
			Expect(cloud.RouterInterfaces("router-router")).To(Equal([]string{"sub-blue", "sub-red"}))

			var doc export.Document
			readJSON(filepath.Join(dir, config.DefaultExportFile), &doc)
			Expect(doc.Network).To(HaveLen(3))
			Expect(doc.Servers).To(HaveLen(3))
			Expect(doc.Router).To(HaveLen(1))
			Expect(doc.Router[0].Interfaces).To(ConsistOf("sub-blue", "sub-red"))

			var trace export.Trace
			readJSON(filepath.Join(dir, "trace.json"), &trace)
			Expect(trace.Status).To(Equal(export.StatusSucceeded))
			Expect(trace.RunID).NotTo(BeEmpty())

			info, err := os.Stat(filepath.Join(dir, "keypair.pem"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(keyfile.FileMode))

			metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(metrics)).To(ContainSubstring("stacktopo_openstack_requests_total"))
			Expect(string(metrics)).To(ContainSubstring(`stacktopo_provisioning_step_duration_seconds_count{result="success",step="keypair"} 1`))

			Expect(out.String()).To(ContainSubstring("Topology provisioned"))
		})

		It("reuses an existing network", func() {
			start(fakecloud.WithNetwork("blue", "net-blue-old"))

			Expect(Create(ctx, CreateOptions{Load: cloudOptions(cloud, dir)})).To(Succeed())

			Expect(cloud.Count("create(network, blue)")).To(BeZero())
			var trace export.Trace
			readJSON(filepath.Join(dir, "trace.json"), &trace)
			Expect(trace.Records).To(ContainElement(And(
				HaveField("Name", "blue"),
				HaveField("ID", "net-blue-old"),
				HaveField("Action", provisioning.ActionReused),
			)))
		})

		It("stops at the first rejected call and keeps the ledger", func() {
			start(fakecloud.WithFailure("create(router, router, net-public)", http.StatusBadRequest, `{"NeutronError":{"message":"quota exceeded"}}`))

			err := Create(ctx, CreateOptions{Load: cloudOptions(cloud, dir)})

			Expect(err).To(MatchError(ContainSubstring("provisioning failed")))
			Expect(provisioning.FailedStep(err)).To(Equal(provisioning.StepRouter))
			Expect(cloud.Count("create(server")).To(BeZero())
			Expect(filepath.Join(dir, config.DefaultExportFile)).NotTo(BeAnExistingFile())

			var trace export.Trace
			readJSON(filepath.Join(dir, "trace.json"), &trace)
			Expect(trace.Status).To(Equal(export.StatusFailed))
			Expect(trace.FailedStep).To(Equal(provisioning.StepRouter))
			Expect(trace.Records).To(HaveLen(6))

			Expect(out.String()).To(ContainSubstring("remove manually"))
			Expect(out.String()).To(ContainSubstring("sub-public"))
		})

		It("fails before any resource call when credentials are rejected", func() {
			start(fakecloud.WithCredentials("admin", "other"))

			err := Create(ctx, CreateOptions{Load: cloudOptions(cloud, dir)})

			Expect(err).To(MatchError(ContainSubstring("authentication failed")))
			Expect(cloud.Trace()).To(Equal([]string{"auth"}))
			Expect(filepath.Join(dir, "trace.json")).NotTo(BeAnExistingFile())
		})
	})

	Describe("export", func() {
		It("writes what the control plane holds", func() {
			start(
				fakecloud.WithNetwork("lab", "net-lab"),
				fakecloud.WithSubnet("lab_subnet", "sub-lab", "net-lab", "10.9.0.0/24"),
				fakecloud.WithRouter("edge", "router-edge"),
			)
			path := filepath.Join(dir, "inventory.json")

			Expect(Export(ctx, ExportOptions{Load: cloudOptions(cloud, dir), Output: path})).To(Succeed())

			var doc export.Document
			readJSON(path, &doc)
			Expect(doc.Network).To(HaveLen(1))
			Expect(doc.Network[0].Subnets).To(HaveLen(1))
			Expect(doc.Router[0].Name).To(Equal("edge"))
			Expect(cloud.Count("create(")).To(BeZero())
		})
	})

	Describe("list", func() {
		It("prints flavors as JSON", func() {
			start()

			Expect(List(ctx, cloudOptions(cloud, dir), "flavors", true)).To(Succeed())

			var flavors []map[string]any
			Expect(json.Unmarshal(out.Bytes(), &flavors)).To(Succeed())
			Expect(flavors).To(HaveLen(1))
			Expect(flavors[0]).To(HaveKeyWithValue("name", config.DefaultFlavor))
		})

		It("prints users as a table", func() {
			start()

			Expect(List(ctx, cloudOptions(cloud, dir), "users", false)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("user-admin"))
		})
	})

	Describe("token", func() {
		It("prints the issued token", func() {
			start()

			Expect(Token(ctx, cloudOptions(cloud, dir))).To(Succeed())
			Expect(out.String()).To(Equal(fakecloud.Token + "\n"))
		})
	})
})
