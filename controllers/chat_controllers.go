package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// OpenMyConversation returns (or creates) the authenticated client's thread.
func (cc *ChatController) OpenMyConversation(c *gin.Context) {
	userID, _ := currentUser(c)

	conv, err := cc.Chat.OpenConversation(userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Conversation", conv)
}

// GetAllConversations -> admin inbox
func (cc *ChatController) GetAllConversations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	convs, pagination, err := cc.Chat.ListConversations(page, limit)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of conversations", gin.H{
		"data":       convs,
		"pagination": pagination,
	})
}

func (cc *ChatController) GetMessages(c *gin.Context) {
	userID, role := currentUser(c)
	convID, _ := strconv.Atoi(c.Param("conversation_id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, pagination, err := cc.Chat.ListMessages(uint(convID), userID, role, page, limit)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of messages", gin.H{
		"data":       messages,
		"pagination": pagination,
	})
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, role := currentUser(c)
	convID, _ := strconv.Atoi(c.Param("conversation_id"))

	var body struct {
		Content     string  `json:"content" binding:"required"`
		MessageType string  `json:"message_type"`
		FileURL     *string `json:"file_url"`
		FileName    *string `json:"file_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	msg, err := cc.Chat.SendMessage(uint(convID), userID, role,
		body.Content, body.MessageType, body.FileURL, body.FileName)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Message envoyé", msg)
}

func (cc *ChatController) MarkConversationRead(c *gin.Context) {
	userID, role := currentUser(c)
	convID, _ := strconv.Atoi(c.Param("conversation_id"))

	if err := cc.Chat.MarkConversationRead(uint(convID), userID, role); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Conversation lue", nil)
}

func (cc *ChatController) DeleteMessage(c *gin.Context) {
	userID, role := currentUser(c)
	msgID, _ := strconv.Atoi(c.Param("message_id"))

	if err := cc.Chat.DeleteMessage(uint(msgID), userID, role); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Message supprimé", gin.H{"message_id": msgID})
}
