package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) Create(ctx context.Context, t *entity.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, userID, id string) (*entity.Task, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, userID string, includeCompleted bool) ([]*entity.Task, error) {
	args := m.Called(ctx, userID, includeCompleted)
	return args.Get(0).([]*entity.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	return m.Called(ctx, userID, id, patch).Error(0)
}

func (m *MockTaskRepository) Toggle(ctx context.Context, userID, id string) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockCalendarRepository struct{ mock.Mock }

func (m *MockCalendarRepository) Create(ctx context.Context, e *entity.CalendarEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockCalendarRepository) FindByID(ctx context.Context, userID, id string) (*entity.CalendarEvent, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*entity.CalendarEvent, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]*entity.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	return m.Called(ctx, userID, id, patch).Error(0)
}

func (m *MockCalendarRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func TestCreateEventDefaultsToOneHour(t *testing.T) {
	cal := new(MockCalendarRepository)
	uc := NewTaskUseCase(new(MockTaskRepository), cal)
	start := time.Date(2026, 4, 10, 16, 0, 0, 0, time.UTC)
	cal.On("Create", mock.Anything, mock.AnythingOfType("*entity.CalendarEvent")).Return(nil)

	e, err := uc.CreateEvent(context.Background(), "u-1", EventInput{Title: "Reunión Acme", StartAt: start})

	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), e.EndAt)
	assert.Equal(t, "u-1", e.UserID)
}

func TestCreateEventRejectsEndBeforeStart(t *testing.T) {
	cal := new(MockCalendarRepository)
	uc := NewTaskUseCase(new(MockTaskRepository), cal)
	start := time.Date(2026, 4, 10, 16, 0, 0, 0, time.UTC)

	_, err := uc.CreateEvent(context.Background(), "u-1", EventInput{Title: "x", StartAt: start, EndAt: start.Add(-time.Minute)})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	cal.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListEventsDefaultsToCurrentMonth(t *testing.T) {
	cal := new(MockCalendarRepository)
	uc := NewTaskUseCase(new(MockTaskRepository), cal)
	cal.On("ListRange", mock.Anything, "u-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]*entity.CalendarEvent{}, nil)

	_, err := uc.ListEvents(context.Background(), "u-1", time.Time{}, time.Time{})

	require.NoError(t, err)
	call := cal.Calls[0]
	from, to := call.Arguments.Get(2).(time.Time), call.Arguments.Get(3).(time.Time)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, from.AddDate(0, 1, 0), to)
}

func TestUpdateEventKeepsRangeValid(t *testing.T) {
	cal := new(MockCalendarRepository)
	uc := NewTaskUseCase(new(MockTaskRepository), cal)
	start := time.Date(2026, 4, 10, 16, 0, 0, 0, time.UTC)
	cal.On("FindByID", mock.Anything, "u-1", "e-1").
		Return(&entity.CalendarEvent{ID: "e-1", StartAt: start, EndAt: start.Add(time.Hour)}, nil)
	newStart := start.Add(2 * time.Hour)

	_, err := uc.UpdateEvent(context.Background(), "u-1", "e-1", UpdateEventInput{StartAt: &newStart})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	cal.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskLifecycle(t *testing.T) {
	tasks := new(MockTaskRepository)
	uc := NewTaskUseCase(tasks, new(MockCalendarRepository))
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*entity.Task")).Return(nil)
	tasks.On("Toggle", mock.Anything, "u-1", mock.AnythingOfType("string")).Return(true, nil)
	tasks.On("Delete", mock.Anything, "u-2", mock.Anything).Return(entity.ErrNotFound)

	task, err := uc.CreateTask(context.Background(), "u-1", TaskInput{Title: " Llamar a Acme "})
	require.NoError(t, err)
	assert.Equal(t, "Llamar a Acme", task.Title)
	assert.False(t, task.Completed)

	done, err := uc.ToggleTask(context.Background(), "u-1", task.ID)
	require.NoError(t, err)
	assert.True(t, done)

	err = uc.DeleteTask(context.Background(), "u-2", task.ID)
	assert.Equal(t, CodeNotFound, domainCode(t, err))
}

func TestUpdateTaskWithoutFields(t *testing.T) {
	uc := NewTaskUseCase(new(MockTaskRepository), new(MockCalendarRepository))

	_, err := uc.UpdateTask(context.Background(), "u-1", "t-1", UpdateTaskInput{})

	assert.Equal(t, CodeValidation, domainCode(t, err))
}
