package handlers

import (
	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const msgUserNotFound = "Usuario no encontrado"

// UserHandler exposes the sanitized usuarios listing.
type UserHandler struct {
	Users store.UserStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

// GetUsers returns every user without credentials or clinical fields.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	out := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitize())
	}
	utils.Success(c, out)
}

// GetUserByID returns one sanitized user.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err, msgUserNotFound)
		return
	}
	utils.Success(c, user.Sanitize())
}
