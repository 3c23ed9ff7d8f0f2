// Package mocks provides a github.com/golang/mock-generated-style mock of
// modelnet.SubModel, written by hand in the shape `mockgen` produces, so
// tests of package modelnet's dispatch logic can assert exact forward and
// reverse call sequences without a real network family.
package mocks

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	modelnet "github.com/sarchlab/modelnet/modelnet"
)

// MockSubModel is a mock of the SubModel interface.
type MockSubModel struct {
	ctrl     *gomock.Controller
	recorder *MockSubModelMockRecorder
}

// MockSubModelMockRecorder is the mock recorder for MockSubModel.
type MockSubModelMockRecorder struct {
	mock *MockSubModel
}

// NewMockSubModel creates a new mock instance.
func NewMockSubModel(ctrl *gomock.Controller) *MockSubModel {
	mock := &MockSubModel{ctrl: ctrl}
	mock.recorder = &MockSubModelMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubModel) EXPECT() *MockSubModelMockRecorder {
	return m.recorder
}

// Init mocks base method.
func (m *MockSubModel) Init(lp *modelnet.BaseLP) any {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Init", lp)
	ret0, _ := ret[0].(any)
	return ret0
}

// Init indicates an expected call of Init.
func (mr *MockSubModelMockRecorder) Init(lp any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Init", reflect.TypeOf((*MockSubModel)(nil).Init), lp)
}

// Event mocks base method.
func (m *MockSubModel) Event(lp *modelnet.BaseLP, state any, env *modelnet.Envelope) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Event", lp, state, env)
}

// Event indicates an expected call of Event.
func (mr *MockSubModelMockRecorder) Event(lp, state, env any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Event", reflect.TypeOf((*MockSubModel)(nil).Event), lp, state, env)
}

// Revent mocks base method.
func (m *MockSubModel) Revent(lp *modelnet.BaseLP, state any, env *modelnet.Envelope) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Revent", lp, state, env)
}

// Revent indicates an expected call of Revent.
func (mr *MockSubModelMockRecorder) Revent(lp, state, env any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Revent", reflect.TypeOf((*MockSubModel)(nil).Revent), lp, state, env)
}

// Commit mocks base method.
func (m *MockSubModel) Commit(lp *modelnet.BaseLP, state any, env *modelnet.Envelope) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Commit", lp, state, env)
}

// Commit indicates an expected call of Commit.
func (mr *MockSubModelMockRecorder) Commit(lp, state, env any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockSubModel)(nil).Commit), lp, state, env)
}

// Final mocks base method.
func (m *MockSubModel) Final(lp *modelnet.BaseLP, state any) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Final", lp, state)
}

// Final indicates an expected call of Final.
func (mr *MockSubModelMockRecorder) Final(lp, state any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Final", reflect.TypeOf((*MockSubModel)(nil).Final), lp, state)
}

// StateSize mocks base method.
func (m *MockSubModel) StateSize() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "StateSize")
	ret0, _ := ret[0].(int)
	return ret0
}

// StateSize indicates an expected call of StateSize.
func (mr *MockSubModelMockRecorder) StateSize() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "StateSize", reflect.TypeOf((*MockSubModel)(nil).StateSize))
}
