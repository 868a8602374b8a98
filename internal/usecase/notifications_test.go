package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestNotifyKeepsNotificationWhenPushFails(t *testing.T) {
	repo := new(MockNotificationRepository)
	rt := new(MockRealtime)
	uc := NewNotificationUseCase(repo, rt, zerolog.Nop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Notification")).Return(nil)
	rt.On("Publish", mock.Anything, "u-1", EventNotification, mock.AnythingOfType("*entity.Notification")).
		Return(errors.New("broker caído"))

	n, err := uc.Notify(context.Background(), "u-1", entity.NotificationLeadCaptured, "Nuevo lead", "Luis", "/leads/l-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", n.UserID)
	assert.False(t, n.Read)
	rt.AssertExpectations(t)
}

func TestNotifyRequiresRecipient(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewNotificationUseCase(repo, nil, zerolog.Nop())

	_, err := uc.Notify(context.Background(), " ", "x", "t", "m", "")

	assert.Equal(t, CodeValidation, domainCode(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewNotificationUseCase(repo, nil, zerolog.Nop())
	repo.On("MarkRead", mock.Anything, "u-2", "n-1").Return(entity.ErrNotFound)

	err := uc.MarkRead(context.Background(), "u-2", "n-1")

	assert.Equal(t, CodeNotFound, domainCode(t, err))
}
