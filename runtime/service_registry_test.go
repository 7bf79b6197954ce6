package runtime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	status  error
	started bool
	stopped *[]string
}

type secondMockService struct {
	status  error
	stopped *[]string
}

func (m *mockService) Start() { m.started = true }

func (m *mockService) Stop() error {
	if m.stopped != nil {
		*m.stopped = append(*m.stopped, "first")
	}
	return nil
}

func (m *mockService) Status() error { return m.status }

func (*secondMockService) Start() {}

func (s *secondMockService) Stop() error {
	if s.stopped != nil {
		*s.stopped = append(*s.stopped, "second")
	}
	return errors.New("already stopped")
}

func (s *secondMockService) Status() error { return s.status }

func TestRegisterService_Twice(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))
	require.Equal(t, 1, len(registry.serviceTypes))
	assert.ErrorContains(t, registry.RegisterService(m), "service already exists")
}

func TestRegisterService_Different(t *testing.T) {
	registry := NewServiceRegistry()

	require.NoError(t, registry.RegisterService(&mockService{}))
	require.NoError(t, registry.RegisterService(&secondMockService{}))
	require.Equal(t, 2, len(registry.serviceTypes))
	require.Equal(t, 2, len(registry.services))
}

func TestFetchService_OK(t *testing.T) {
	registry := NewServiceRegistry()
	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))

	assert.ErrorContains(t, registry.FetchService(*m), "input must be of pointer type, received value type instead")

	var s *mockService
	require.NoError(t, registry.FetchService(&s))
	assert.Equal(t, m, s)

	var missing *secondMockService
	assert.ErrorContains(t, registry.FetchService(&missing), "unknown service")
}

func TestServiceRegistry_StartStopOrder(t *testing.T) {
	registry := NewServiceRegistry()
	var stopped []string
	first := &mockService{stopped: &stopped}
	second := &secondMockService{stopped: &stopped}
	require.NoError(t, registry.RegisterService(first))
	require.NoError(t, registry.RegisterService(second))

	registry.StartAll()
	assert.True(t, first.started)

	registry.StopAll()
	assert.Equal(t, []string{"second", "first"}, stopped)
}

func TestServiceRegistry_Statuses(t *testing.T) {
	registry := NewServiceRegistry()
	m := &mockService{}
	s := &secondMockService{status: errors.New("unhealthy")}
	require.NoError(t, registry.RegisterService(m))
	require.NoError(t, registry.RegisterService(s))

	statuses := registry.Statuses()
	assert.NoError(t, statuses[reflect.TypeOf(m)])
	assert.EqualError(t, statuses[reflect.TypeOf(s)], "unhealthy")
}
