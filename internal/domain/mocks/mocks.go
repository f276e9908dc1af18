// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "reify.dev/pkg/reify/internal/domain"
	model "reify.dev/pkg/reify/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockWorkflow is a mock type for the Workflow type
type MockWorkflow struct {
	mock.Mock
}

// Run provides a mock function with given fields: ctx, args
func (_m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// List provides a mock function with given fields: ctx, args
func (_m *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// View provides a mock function with given fields: ctx, args
func (_m *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// NewMockWorkflow creates a new instance of MockWorkflow. It also registers a cleanup function to assert the mocks expectations.
func NewMockWorkflow(t testingT) *MockWorkflow {
	mock := &MockWorkflow{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockMaterializer is a mock type for the Materializer type
type MockMaterializer struct {
	mock.Mock
}

// Materialize provides a mock function with given fields: ctx, unit
func (_m *MockMaterializer) Materialize(ctx context.Context, unit *model.TranslationUnit) (model.Report, error) {
	ret := _m.Called(ctx, unit)

	var r0 model.Report
	if rf, ok := ret.Get(0).(func(context.Context, *model.TranslationUnit) model.Report); ok {
		r0 = rf(ctx, unit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.Report)
	}

	return r0, ret.Error(1)
}

// NewMockMaterializer creates a new instance of MockMaterializer. It also registers a cleanup function to assert the mocks expectations.
func NewMockMaterializer(t testingT) *MockMaterializer {
	mock := &MockMaterializer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
