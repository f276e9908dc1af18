// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	controller "reify.dev/pkg/reify/internal/controller"
	model "reify.dev/pkg/reify/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUI is a mock type for the UI type
type MockUI struct {
	mock.Mock
}

// Start provides a mock function with given fields: ctx, options
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)

	return ret.Error(0)
}

// Close provides a mock function with given fields: ctx
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// Wait provides a mock function with given fields: ctx
func (_m *MockUI) Wait(ctx context.Context) {
	_m.Called(ctx)
}

// DisplayConcurrencyInfo provides a mock function with given fields: ctx, threads, units
func (_m *MockUI) DisplayConcurrencyInfo(ctx context.Context, threads int, units int) {
	_m.Called(ctx, threads, units)
}

// DisplayCandidates provides a mock function with given fields: ctx, reports
func (_m *MockUI) DisplayCandidates(ctx context.Context, reports []model.Report) error {
	ret := _m.Called(ctx, reports)

	return ret.Error(0)
}

// DisplayOutput provides a mock function with given fields: ctx, report
func (_m *MockUI) DisplayOutput(ctx context.Context, report model.Report) error {
	ret := _m.Called(ctx, report)

	return ret.Error(0)
}

// DisplayDiff provides a mock function with given fields: ctx, report
func (_m *MockUI) DisplayDiff(ctx context.Context, report model.Report) error {
	ret := _m.Called(ctx, report)

	return ret.Error(0)
}

// DisplaySummary provides a mock function with given fields: ctx, reports
func (_m *MockUI) DisplaySummary(ctx context.Context, reports []model.Report) {
	_m.Called(ctx, reports)
}

// DisplayEdits provides a mock function with given fields: ctx, reports
func (_m *MockUI) DisplayEdits(ctx context.Context, reports []model.Report) error {
	ret := _m.Called(ctx, reports)

	return ret.Error(0)
}

// NewMockUI creates a new instance of MockUI. It also registers a cleanup function to assert the mocks expectations.
func NewMockUI(t testingT) *MockUI {
	mock := &MockUI{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
