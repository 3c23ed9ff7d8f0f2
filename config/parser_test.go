package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/config"
	"github.com/sarchlab/modelnet/prop"
)

const ringTopology = `
subgraphs:
  - name: hosts
    vertices:
      - name: host0
        edges: [host1]
      - name: host1
        edges: [host2]
      - name: host2
        edges: [host0]
`

const ringConfig = `
simulation:
  packet_size: 1024
  modelnet_scheduler: fcfs
  modelnet_order: [simplenet]
topology:
  filename: topo.yaml
host:
  type: host
  model: simplenet
  num_requests: 2
  vertices: [host0, host1, host2]
`

func writeFiles(t GinkgoTInterface, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)).To(Succeed())
	}
	return dir
}

var _ = Describe("Parse", func() {
	It("parses simulation config, LP types, and topology together", func() {
		dir := writeFiles(GinkgoT(), map[string]string{
			"sim.yaml":  ringConfig,
			"topo.yaml": ringTopology,
		})

		cfg, err := config.Parse(filepath.Join(dir, "sim.yaml"))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Sim.PacketSize()).To(Equal(int64(1024)))
		Expect(cfg.Sim.Scheduler()).To(Equal("fcfs"))
		Expect(cfg.Sim.ModelNetOrder()).To(Equal([]string{"simplenet"}))

		Expect(cfg.Types).To(HaveLen(1))
		ht := cfg.Types[0]
		Expect(ht.Name).To(Equal("host"))
		Expect(ht.Kind).To(Equal(config.KindHost))
		Expect(ht.ModelType).To(Equal(config.ModelSimpleChannel))
		Expect(ht.Vertices).To(Equal([]string{"host0", "host1", "host2"}))
		Expect(ht.Props.IntOr("num_requests", -1)).To(Equal(int64(2)))

		Expect(cfg.Graph.VertexCount()).To(Equal(3))
	})

	It("fails when a vertex belongs to no LP type", func() {
		dir := writeFiles(GinkgoT(), map[string]string{
			"sim.yaml": `
simulation: {}
topology:
  filename: topo.yaml
host:
  type: host
  model: simplenet
  vertices: [host0]
`,
			"topo.yaml": ringTopology,
		})

		_, err := config.Parse(filepath.Join(dir, "sim.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("fails when the topology section is missing", func() {
		dir := writeFiles(GinkgoT(), map[string]string{
			"sim.yaml": "simulation: {}\n",
		})

		_, err := config.Parse(filepath.Join(dir, "sim.yaml"))
		Expect(err).To(HaveOccurred())
	})

	It("classifies a literal 0 or 1 scalar as an integer, not a boolean", func() {
		dir := writeFiles(GinkgoT(), map[string]string{
			"sim.yaml": `
simulation: {}
topology:
  filename: topo.yaml
host:
  type: host
  model: simplenet
  lp_io_use_suffix: 1
  retry_budget: 0
  vertices: [host0, host1, host2]
`,
			"topo.yaml": ringTopology,
		})

		cfg, err := config.Parse(filepath.Join(dir, "sim.yaml"))
		Expect(err).NotTo(HaveOccurred())

		props := cfg.Types[0].Props
		suffix, ok := props.Get("lp_io_use_suffix")
		Expect(ok).To(BeTrue())
		Expect(suffix.Kind()).To(Equal(prop.Int))
		Expect(suffix.Int()).To(Equal(int64(1)))

		budget, ok := props.Get("retry_budget")
		Expect(ok).To(BeTrue())
		Expect(budget.Kind()).To(Equal(prop.Int))
		Expect(budget.Int()).To(Equal(int64(0)))
	})

	It("falls back to the custom model family for unknown model names", func() {
		dir := writeFiles(GinkgoT(), map[string]string{
			"sim.yaml": `
simulation: {}
topology:
  filename: topo.yaml
host:
  type: host
  model: mystery-net
  vertices: [host0, host1, host2]
`,
			"topo.yaml": ringTopology,
		})

		cfg, err := config.Parse(filepath.Join(dir, "sim.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Types[0].ModelType).To(Equal(config.ModelCustom))
	})
})
