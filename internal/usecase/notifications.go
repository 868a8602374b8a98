package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Evento realtime que acompaña a cada notificación persistida.
const EventNotification = "notification"

type NotificationUseCase struct {
	Repo     NotificationRepository
	Realtime RealtimePublisher
	log      zerolog.Logger
}

func NewNotificationUseCase(repo NotificationRepository, realtime RealtimePublisher, log zerolog.Logger) *NotificationUseCase {
	return &NotificationUseCase{Repo: repo, Realtime: realtime, log: log}
}

// Notify persiste la notificación y la empuja por realtime. Si el push falla la
// notificación igual queda guardada.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID, kind, title, message, link string) (*entity.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("El destinatario es obligatorio")
	}
	n := entity.NewNotification(userID, kind, title, message, link)
	if err := uc.Repo.Create(ctx, n); err != nil {
		return nil, internal("Error al crear notificación", err)
	}

	if uc.Realtime != nil {
		if err := uc.Realtime.Publish(ctx, userID, EventNotification, n); err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ no se pudo publicar la notificación en realtime")
		}
	}
	return n, nil
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	list, err := uc.Repo.List(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, internal("Error al listar notificaciones", err)
	}
	return list, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := uc.Repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, internal("Error al contar notificaciones", err)
	}
	return n, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	if err := uc.Repo.MarkRead(ctx, userID, id); err != nil {
		return fromRepo(err, "Notificación no encontrada", "Error al marcar notificación")
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := uc.Repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internal("Error al marcar notificaciones", err)
	}
	return n, nil
}

func (uc *NotificationUseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.Repo.Delete(ctx, userID, id); err != nil {
		return fromRepo(err, "Notificación no encontrada", "Error al eliminar notificación")
	}
	return nil
}
