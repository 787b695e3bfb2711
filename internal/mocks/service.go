package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockImageCache is a mock type for the service.ImageCache type
type MockImageCache struct {
	mock.Mock
}

// Lookup provides a mock function with given fields: ctx, prompt
func (_m *MockImageCache) Lookup(ctx context.Context, prompt string) (string, bool) {
	ret := _m.Called(ctx, prompt)
	return ret.String(0), ret.Bool(1)
}

// Store provides a mock function with given fields: ctx, prompt, data
func (_m *MockImageCache) Store(ctx context.Context, prompt string, data []byte) (string, error) {
	ret := _m.Called(ctx, prompt, data)
	return ret.String(0), ret.Error(1)
}

// NewMockImageCache creates a new instance of MockImageCache.
func NewMockImageCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageCache {
	m := &MockImageCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockPinger is a mock for anything with a Ping(ctx) error method.
type MockPinger struct {
	mock.Mock
}

// Ping provides a mock function with given fields: ctx
func (_m *MockPinger) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
