package registry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/registry"
)

var _ = Describe("Registry known families", func() {
	It("round-trips a registration through LookupKnown", func() {
		r := registry.New()
		called := false
		r.RegisterKnown(registry.FamilySimpleP2P, func() { called = true }, func(id int) {})

		register, _, ok := r.LookupKnown(registry.FamilySimpleP2P)
		Expect(ok).To(BeTrue())
		register()
		Expect(called).To(BeTrue())
	})

	It("reports not-found for a family nobody registered", func() {
		r := registry.New()
		_, _, ok := r.LookupKnown(registry.FamilySimpleChannel)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Registry custom names", func() {
	It("round-trips a registration through LookupCustom", func() {
		r := registry.New()
		gotID := -1
		r.RegisterCustom("mytorus", func() {}, func(id int) { gotID = id })

		_, networkID, ok := r.LookupCustom("mytorus")
		Expect(ok).To(BeTrue())
		networkID(7)
		Expect(gotID).To(Equal(7))
	})

	It("returns a warning instead of overwriting a duplicate registration", func() {
		r := registry.New()
		first := 0
		r.RegisterCustom("mytorus", func() { first++ }, func(id int) {})
		warning := r.RegisterCustom("mytorus", func() { first += 100 }, func(id int) {})

		Expect(warning).NotTo(BeEmpty())
		register, _, _ := r.LookupCustom("mytorus")
		register()
		Expect(first).To(Equal(1))
	})

	It("panics when a configured custom type was never registered", func() {
		r := registry.New()
		Expect(func() { r.MustLookupCustom("ghost") }).To(Panic())
	})
})
