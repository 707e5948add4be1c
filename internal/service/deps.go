package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Clock источник текущего времени. В тестах подменяется фиксированным.
type Clock func() time.Time

// IDGenerator выдаёт новые идентификаторы сущностей.
type IDGenerator func() string

// SystemClock текущее время в UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator идентификатор на основе UUIDv4.
func UUIDGenerator() string {
	return uuid.NewString()
}

// События, которые сервисы публикуют в вебсокет хаб.
const (
	EventCategoryCreated        = "category.created"
	EventCategoryUpdated        = "category.updated"
	EventCategoryDeactivated    = "category.deactivated"
	EventCategoryReactivated    = "category.reactivated"
	EventSubCategoryCreated     = "subcategory.created"
	EventSubCategoryUpdated     = "subcategory.updated"
	EventSubCategoryDeactivated = "subcategory.deactivated"
	EventSubCategoryReactivated = "subcategory.reactivated"
	EventSkillAssigned          = "skill.assigned"
	EventSkillUpdated           = "skill.updated"
	EventSkillUnassigned        = "skill.unassigned"
)

// EventPublisher доставляет события подписчикам. Реализуется ws.Hub.
type EventPublisher interface {
	Broadcast(event string, data any) error
	BroadcastToUser(userID string, event string, data any) error
}

// publisher обёртка, которая молча ничего не делает без хаба и только логирует ошибки доставки.
type publisher struct {
	target EventPublisher
	log    *logrus.Entry
}

func (p publisher) all(event string, data any) {
	if p.target == nil {
		return
	}
	if err := p.target.Broadcast(event, data); err != nil {
		p.log.WithError(err).WithField("event", event).Warn("не удалось отправить событие")
	}
}

func (p publisher) user(userID, event string, data any) {
	if p.target == nil {
		return
	}
	if err := p.target.BroadcastToUser(userID, event, data); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{"event": event, "user_id": userID}).Warn("не удалось отправить событие")
	}
}
