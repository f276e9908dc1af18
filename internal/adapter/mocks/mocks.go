// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	context "context"
	os "os"

	mock "github.com/stretchr/testify/mock"

	model "reify.dev/pkg/reify/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSourceFSAdapter is a mock type for the SourceFSAdapter type
type MockSourceFSAdapter struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, paths, exclude
func (_m *MockSourceFSAdapter) Get(ctx context.Context, paths []model.Path, exclude ...string) ([]model.Path, error) {
	ret := _m.Called(ctx, paths, exclude)

	var r0 []model.Path
	if rf, ok := ret.Get(0).(func(context.Context, []model.Path, ...string) []model.Path); ok {
		r0 = rf(ctx, paths, exclude...)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Path)
	}

	return r0, ret.Error(1)
}

// ReadFile provides a mock function with given fields: path
func (_m *MockSourceFSAdapter) ReadFile(path model.Path) ([]byte, error) {
	ret := _m.Called(path)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// WriteFile provides a mock function with given fields: path, content, perm
func (_m *MockSourceFSAdapter) WriteFile(path model.Path, content []byte, perm os.FileMode) error {
	ret := _m.Called(path, content, perm)

	return ret.Error(0)
}

// HashFile provides a mock function with given fields: path
func (_m *MockSourceFSAdapter) HashFile(path model.Path) (string, error) {
	ret := _m.Called(path)

	return ret.String(0), ret.Error(1)
}

// NewMockSourceFSAdapter creates a new instance of MockSourceFSAdapter. It also registers a cleanup function to assert the mocks expectations.
func NewMockSourceFSAdapter(t testingT) *MockSourceFSAdapter {
	mock := &MockSourceFSAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockReportStore is a mock type for the ReportStore type
type MockReportStore struct {
	mock.Mock
}

// SaveReports provides a mock function with given fields: path, reports
func (_m *MockReportStore) SaveReports(path model.Path, reports []model.Report) error {
	ret := _m.Called(path, reports)

	return ret.Error(0)
}

// LoadReports provides a mock function with given fields: path
func (_m *MockReportStore) LoadReports(path model.Path) ([]model.Report, error) {
	ret := _m.Called(path)

	var r0 []model.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Report)
	}

	return r0, ret.Error(1)
}

// NewMockReportStore creates a new instance of MockReportStore. It also registers a cleanup function to assert the mocks expectations.
func NewMockReportStore(t testingT) *MockReportStore {
	mock := &MockReportStore{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockASTAdapter is a mock type for the ASTAdapter type
type MockASTAdapter struct {
	mock.Mock
}

// Load provides a mock function with given fields: ctx, path
func (_m *MockASTAdapter) Load(ctx context.Context, path model.Path) (*model.TranslationUnit, error) {
	ret := _m.Called(ctx, path)

	var r0 *model.TranslationUnit
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.TranslationUnit)
	}

	return r0, ret.Error(1)
}

// NewMockASTAdapter creates a new instance of MockASTAdapter. It also registers a cleanup function to assert the mocks expectations.
func NewMockASTAdapter(t testingT) *MockASTAdapter {
	mock := &MockASTAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockSynthesizer is a mock type for the Synthesizer type
type MockSynthesizer struct {
	mock.Mock
}

// Synthesize provides a mock function with given fields: ctx, unit, d
func (_m *MockSynthesizer) Synthesize(ctx context.Context, unit *model.TranslationUnit, d *model.Decl) (string, error) {
	ret := _m.Called(ctx, unit, d)

	if rf, ok := ret.Get(0).(func(context.Context, *model.TranslationUnit, *model.Decl) (string, error)); ok {
		return rf(ctx, unit, d)
	}

	return ret.String(0), ret.Error(1)
}

// NewMockSynthesizer creates a new instance of MockSynthesizer. It also registers a cleanup function to assert the mocks expectations.
func NewMockSynthesizer(t testingT) *MockSynthesizer {
	mock := &MockSynthesizer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockLexicalAdapter is a mock type for the LexicalAdapter type
type MockLexicalAdapter struct {
	mock.Mock
}

// EndOfStatementAfter provides a mock function with given fields: src, loc
func (_m *MockLexicalAdapter) EndOfStatementAfter(src []byte, loc int) (int, error) {
	ret := _m.Called(src, loc)

	return ret.Int(0), ret.Error(1)
}

// NewMockLexicalAdapter creates a new instance of MockLexicalAdapter. It also registers a cleanup function to assert the mocks expectations.
func NewMockLexicalAdapter(t testingT) *MockLexicalAdapter {
	mock := &MockLexicalAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
