package chatrepo

import (
	"context"

	"orderflow/internal/core/domain/model/chat"
	"orderflow/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormChatMessageRepository implements ChatMessageRepository using GORM.
type GormChatMessageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormChatMessageRepository creates a new GORM chat message repository.
func NewGormChatMessageRepository(db *gorm.DB, tracker aggregateTracker) *GormChatMessageRepository {
	return &GormChatMessageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new chat message to the database.
func (r *GormChatMessageRepository) Add(ctx context.Context, msg *chat.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	dto := fromDomain(msg)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(msg.ID(), msg)
	return nil
}

// Update saves an existing chat message to the database.
func (r *GormChatMessageRepository) Update(ctx context.Context, msg *chat.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	dto := fromDomain(msg)
	result := r.db.WithContext(ctx).Model(&ChatMessageDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{"read": dto.Read})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(msg.ID(), msg)
	return nil
}

// GetByOrder retrieves all chat messages of an order, oldest first.
func (r *GormChatMessageRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*chat.Message, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ChatMessageDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	messages := make([]*chat.Message, 0, len(dtos))
	for _, dto := range dtos {
		msg, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}
