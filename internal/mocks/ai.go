package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"story-relay/internal/ai"
)

// MockTextGenerator is a mock type for the ai.TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

// GenerateStructured provides a mock function with given fields: ctx, req
func (_m *MockTextGenerator) GenerateStructured(ctx context.Context, req ai.TextRequest) (string, error) {
	ret := _m.Called(ctx, req)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, ai.TextRequest) string); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.String(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, ai.TextRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Ping provides a mock function with given fields: ctx
func (_m *MockTextGenerator) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockTextGenerator creates a new instance of MockTextGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ ai.TextGenerator = (*MockTextGenerator)(nil)

// MockImageGenerator is a mock type for the ai.ImageGenerator type
type MockImageGenerator struct {
	mock.Mock
}

// GenerateImage provides a mock function with given fields: ctx, prompt, aspectRatio
func (_m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
	ret := _m.Called(ctx, prompt, aspectRatio)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []byte); ok {
		r0 = rf(ctx, prompt, aspectRatio)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, prompt, aspectRatio)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockImageGenerator creates a new instance of MockImageGenerator.
func NewMockImageGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageGenerator {
	m := &MockImageGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ ai.ImageGenerator = (*MockImageGenerator)(nil)
