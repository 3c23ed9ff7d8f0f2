package mocks_test

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/modelnet"
	"github.com/sarchlab/modelnet/modelnet/mocks"
)

var _ = Describe("MockSubModel", func() {
	It("records the exact Event/Revent sequence a base-LP drives it through", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		sub := mocks.NewMockSubModel(ctrl)
		sub.EXPECT().Init(gomock.Any()).Return("state")

		state := sub.Init(nil)
		Expect(state).To(Equal("state"))

		env := &modelnet.Envelope{Type: modelnet.EvPass}
		sub.EXPECT().Event(gomock.Any(), "state", env)
		sub.Event(nil, "state", env)

		sub.EXPECT().Revent(gomock.Any(), "state", env)
		sub.Revent(nil, "state", env)
	})
})
