package auth

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	Logger "github.com/problog/problog/utils/log"

	"github.com/problog/problog/model"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Handler bundles the credential and OAuth sign-in endpoints.
type Handler struct {
	DB     *gorm.DB
	Google *GoogleOAuth
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Google: NewGoogleOAuth()}
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// Register creates a credential account. The avatar image is optional,
// everything else is validated before any DB write.
func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields except image are required"})
		return
	}
	if !emailPattern.MatchString(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}
	if len(input.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters"})
		return
	}

	var existing model.User
	res := h.DB.Where("email = ? OR name = ?", input.Email, input.Name).First(&existing)
	if res.RowsAffected != 0 {
		msg := "username already taken"
		if existing.Email == input.Email {
			msg = "email is already in use"
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user := model.User{
		Id:           uuid.New().String(),
		CreatedAt:    time.Now(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		AvatarUrl:    input.Image,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		Logger.Log.Error("fail to create user: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": &user})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and hands back a signed session token together
// with the user snapshot.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	var user model.User
	res := h.DB.Where("email = ?", input.Email).First(&user)
	if res.RowsAffected != 1 || !CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := IssueSessionToken(user.Id)
	if err != nil {
		Logger.Log.Error("fail to issue session token: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": &user})
}

// RefreshSession returns the authoritative user snapshot for the verified
// session, used by clients on page reload before hydrating the store.
func (h *Handler) RefreshSession(c *gin.Context) {
	userId := c.Request.Header.Get("sub")

	var user model.User
	res := h.DB.Where("id = ?", userId).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": &user})
}
