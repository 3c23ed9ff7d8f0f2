package mctx_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/mctx"
)

// fakeMapper is a tiny stand-in implementing the narrow interface mctx.Context
// needs, so these tests do not depend on package mapper.
type fakeMapper struct {
	neighbors map[int][]int // gid -> ordered neighbor gids, all of the queried type
}

func (f fakeMapper) NeighborCount(sender int, destType string) int {
	return len(f.neighbors[sender])
}

func (f fakeMapper) NeighborGID(sender int, destType string, k int) (int, error) {
	ns := f.neighbors[sender]
	if k < 0 || k >= len(ns) {
		panic("index out of range")
	}
	return ns[k], nil
}

var _ = Describe("Context", func() {
	m := fakeMapper{neighbors: map[int][]int{0: {10, 11, 12}}}

	It("GLOBAL_DIRECT returns its fixed gid regardless of the mapper", func() {
		c := mctx.SetGlobalDirect(99)
		gid, err := c.ToGID(m, 0, "router")
		Expect(err).NotTo(HaveOccurred())
		Expect(gid).To(Equal(99))
	})

	It("GROUP_MODULO picks neighbor 0", func() {
		c := mctx.SetGroupModulo("")
		gid, err := c.ToGID(m, 0, "router")
		Expect(err).NotTo(HaveOccurred())
		Expect(gid).To(Equal(10))
	})

	It("GROUP_MODULO reversed picks the last neighbor", func() {
		c := mctx.SetGroupModuloReverse("")
		gid, err := c.ToGID(m, 0, "router")
		Expect(err).NotTo(HaveOccurred())
		Expect(gid).To(Equal(12))
	})

	It("GROUP_DIRECT uses the offset literally", func() {
		c := mctx.SetGroupDirect(1, "")
		gid, err := c.ToGID(m, 0, "router")
		Expect(err).NotTo(HaveOccurred())
		Expect(gid).To(Equal(11))
	})

	It("errors when there are no neighbors of the requested type", func() {
		c := mctx.SetGroupModulo("")
		_, err := c.ToGID(m, 1, "router")
		Expect(err).To(HaveOccurred())
	})

	It("carries an annotation string through group-wise variants", func() {
		c := mctx.SetGroupRatio("anno-a")
		Expect(c.Annotation()).To(Equal("anno-a"))
	})
})
