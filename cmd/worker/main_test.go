package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	aircraftapp "github.com/turtacn/AeroOps/internal/application/aircraft"
	"github.com/turtacn/AeroOps/internal/application/inventory"
	quarantineapp "github.com/turtacn/AeroOps/internal/application/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type MockQuarantineService struct {
	quarantineapp.Service
	mock.Mock
}

func (m *MockQuarantineService) Sweep(ctx context.Context, tenants []string) (*quarantineapp.SweepReport, error) {
	args := m.Called(ctx, tenants)
	r, _ := args.Get(0).(*quarantineapp.SweepReport)
	return r, args.Error(1)
}

type MockInventoryService struct {
	inventory.Service
	mock.Mock
}

func (m *MockInventoryService) Invalidate(ctx context.Context, change kafka.ResourceChangedPayload) error {
	return m.Called(ctx, change).Error(0)
}

type MockAircraftService struct {
	aircraftapp.Service
	mock.Mock
}

func (m *MockAircraftService) PurgeStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestWorker(tenants ...string) (*worker, *MockQuarantineService, *MockInventoryService, *MockAircraftService) {
	q, inv, ac := &MockQuarantineService{}, &MockInventoryService{}, &MockAircraftService{}
	return &worker{
		quarantine:  q,
		aircraft:    ac,
		inventory:   inv,
		tenants:     tenants,
		concurrency: 2,
		logger:      logging.NewNopLogger(),
	}, q, inv, ac
}

func TestSweep_OneCallPerTenant(t *testing.T) {
	w, q, _, _ := newTestWorker("acme", "hangar74", "transmandu")
	for _, tenant := range w.tenants {
		q.On("Sweep", mock.Anything, []string{tenant}).Return(&quarantineapp.SweepReport{Tenants: 1, NewAlerts: 1}, nil).Once()
	}
	w.sweep(context.Background())
	q.AssertExpectations(t)
}

func TestSweep_FailureDoesNotStopOthers(t *testing.T) {
	w, q, _, _ := newTestWorker("acme", "broken")
	q.On("Sweep", mock.Anything, []string{"broken"}).Return(nil, errors.New(errors.ErrCodeServiceUnavailable, "down")).Once()
	q.On("Sweep", mock.Anything, []string{"acme"}).Return(&quarantineapp.SweepReport{Tenants: 1}, nil).Once()
	w.sweep(context.Background())
	q.AssertExpectations(t)
}

func TestSweep_NoTenants(t *testing.T) {
	w, q, _, _ := newTestWorker()
	w.sweep(context.Background())
	q.AssertNotCalled(t, "Sweep", mock.Anything, mock.Anything)
}

func envelopeMessage(t *testing.T, eventType string, payload interface{}) *kafka.Message {
	t.Helper()
	env, err := kafka.NewEventEnvelope(eventType, "test", payload)
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return &kafka.Message{Topic: kafka.TopicResourceChanged, Value: raw}
}

func TestHandleResourceChanged(t *testing.T) {
	change := kafka.ResourceChangedPayload{Tenant: "acme", Resource: "article", ID: 7, Action: kafka.ActionDeleted}

	t.Run("invalidates", func(t *testing.T) {
		w, _, inv, _ := newTestWorker()
		inv.On("Invalidate", mock.Anything, change).Return(nil).Once()
		require.NoError(t, w.handleResourceChanged(context.Background(), envelopeMessage(t, kafka.EventResourceChanged, change)))
		inv.AssertExpectations(t)
	})

	t.Run("invalidate error is retried", func(t *testing.T) {
		w, _, inv, _ := newTestWorker()
		inv.On("Invalidate", mock.Anything, change).Return(errors.New(errors.ErrCodeCacheError, "redis down")).Once()
		assert.Error(t, w.handleResourceChanged(context.Background(), envelopeMessage(t, kafka.EventResourceChanged, change)))
	})

	t.Run("other event type ignored", func(t *testing.T) {
		w, _, inv, _ := newTestWorker()
		require.NoError(t, w.handleResourceChanged(context.Background(), envelopeMessage(t, "quarantine.alert", change)))
		inv.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("malformed message dropped", func(t *testing.T) {
		w, _, inv, _ := newTestWorker()
		msg := &kafka.Message{Topic: kafka.TopicResourceChanged, Value: []byte("{not json")}
		require.NoError(t, w.handleResourceChanged(context.Background(), msg))
		inv.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestPurge(t *testing.T) {
	w, _, _, ac := newTestWorker()
	ac.On("PurgeStale", mock.Anything).Return(int64(3), nil).Once()
	w.purge(context.Background())

	ac.On("PurgeStale", mock.Anything).Return(int64(0), errors.New(errors.ErrCodeDatabaseError, "boom")).Once()
	w.purge(context.Background())
	ac.AssertExpectations(t)
}

//Personal.AI order the ending
