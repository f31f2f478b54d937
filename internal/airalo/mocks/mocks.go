// Package mocks provides testify mocks for the airalo client interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
)

// MockTokenFetcher is a mock airalo.TokenFetcher.
type MockTokenFetcher struct {
	mock.Mock
}

// NewMockTokenFetcher creates a mock that asserts its expectations on cleanup.
func NewMockTokenFetcher(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockTokenFetcher {
	m := &MockTokenFetcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FetchToken implements airalo.TokenFetcher.
func (m *MockTokenFetcher) FetchToken(
	ctx context.Context,
	creds airalo.Credentials,
) (airalo.TokenGrant, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(airalo.TokenGrant), args.Error(1)
}

// MockDeviceFetcher is a mock airalo.DeviceFetcher.
type MockDeviceFetcher struct {
	mock.Mock
}

// NewMockDeviceFetcher creates a mock that asserts its expectations on cleanup.
func NewMockDeviceFetcher(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockDeviceFetcher {
	m := &MockDeviceFetcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FetchDevices implements airalo.DeviceFetcher.
func (m *MockDeviceFetcher) FetchDevices(ctx context.Context, token string) ([]airalo.Device, error) {
	args := m.Called(ctx, token)
	devices, _ := args.Get(0).([]airalo.Device)
	return devices, args.Error(1)
}
