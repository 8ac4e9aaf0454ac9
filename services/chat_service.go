package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
)

// ChatService manages client <-> shop conversations. One conversation per
// client; administrators share the shop side of every thread.
type ChatService struct {
	db     *gorm.DB
	events EventSink
}

func NewChatService(db *gorm.DB, events EventSink) *ChatService {
	return &ChatService{db: db, events: events}
}

// OpenConversation returns the client's conversation, creating it on first
// contact.
func (cs *ChatService) OpenConversation(clientID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := cs.db.Preload("Client").Where("client_id = ?", clientID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = models.Conversation{ClientID: clientID}
		if err := cs.db.Create(&conv).Error; err != nil {
			return nil, err
		}
		return cs.getConversation(conv.ID)
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations is the admin inbox, most recent activity first.
func (cs *ChatService) ListConversations(page, limit int) ([]models.Conversation, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := cs.db.Model(&models.Conversation{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var convs []models.Conversation
	err := cs.db.Preload("Client").
		Order("last_message_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return convs, NewPagination(page, limit, total), nil
}

// SendMessage appends a message to the conversation, updates the denormalized
// inbox fields and emits newMessage to the other side. Clients may only write
// to their own thread.
func (cs *ChatService) SendMessage(conversationID, senderID uint, senderRole, content, messageType string, fileURL, fileName *string) (*models.Message, error) {
	if content == "" {
		return nil, NewAppError(400, "le contenu est requis")
	}
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	conv, err := cs.getConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if senderRole != models.RoleAdmin && conv.ClientID != senderID {
		return nil, ErrForbidden
	}

	now := time.Now()
	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    messageType,
		FileURL:        fileURL,
		FileName:       fileName,
		CreatedAt:      now,
	}

	fromClient := conv.ClientID == senderID
	err = cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"last_message":    content,
			"last_message_at": now,
			"updated_at":      now,
		}
		if fromClient {
			updates["admin_unread"] = gorm.Expr("admin_unread + 1")
		} else {
			updates["client_unread"] = gorm.Expr("client_unread + 1")
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if cs.events != nil {
		if fromClient {
			cs.events.EmitToAdmins(EventNewMessage, msg)
		} else {
			cs.events.EmitToUser(conv.ClientID, EventNewMessage, msg)
		}
	}
	return &msg, nil
}

// ListMessages returns a conversation page, oldest first, excluding soft
// deleted messages. Access follows the same ownership rule as SendMessage.
func (cs *ChatService) ListMessages(conversationID, actorID uint, role string, page, limit int) ([]models.Message, Pagination, error) {
	conv, err := cs.getConversation(conversationID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if role != models.RoleAdmin && conv.ClientID != actorID {
		return nil, Pagination{}, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	query := cs.db.Model(&models.Message{}).
		Where("conversation_id = ? AND is_deleted = ?", conv.ID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var messages []models.Message
	err = query.Preload("Sender").
		Order("created_at asc, id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return messages, NewPagination(page, limit, total), nil
}

// MarkConversationRead clears the reader's unread counter and flags the other
// side's messages as read.
func (cs *ChatService) MarkConversationRead(conversationID, actorID uint, role string) error {
	conv, err := cs.getConversation(conversationID)
	if err != nil {
		return err
	}
	isClient := role != models.RoleAdmin
	if isClient && conv.ClientID != actorID {
		return ErrForbidden
	}

	now := time.Now()
	return cs.db.Transaction(func(tx *gorm.DB) error {
		msgQuery := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND is_read = ?", conv.ID, false)
		counter := "admin_unread"
		if isClient {
			// The client reads the shop's messages.
			msgQuery = msgQuery.Where("sender_id != ?", conv.ClientID)
			counter = "client_unread"
		} else {
			msgQuery = msgQuery.Where("sender_id = ?", conv.ClientID)
		}
		if err := msgQuery.Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Update(counter, 0).Error
	})
}

// DeleteMessage soft-deletes a message; only the sender or an administrator
// may remove it.
func (cs *ChatService) DeleteMessage(messageID, actorID uint, role string) error {
	var msg models.Message
	err := cs.db.First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewAppError(404, "message non trouvé")
	}
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && msg.SenderID != actorID {
		return ErrForbidden
	}

	now := time.Now()
	return cs.db.Model(&msg).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
	}).Error
}

func (cs *ChatService) getConversation(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := cs.db.Preload("Client").First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
