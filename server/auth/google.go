package auth

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/problog/problog/model"
	"github.com/problog/problog/utils"
	Logger "github.com/problog/problog/utils/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateCookie  = "oauth_state"
	stateLength       = 24
)

// GoogleOAuth wraps the authorization-code flow against Google. The exchanged
// identity is mapped onto a local account by email.
type GoogleOAuth struct {
	config *oauth2.Config
}

func NewGoogleOAuth() *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *GoogleOAuth) fetchUserInfo(c *gin.Context, code string) (*googleUserInfo, error) {
	token, err := g.config.Exchange(c.Request.Context(), code)
	if err != nil {
		return nil, errors.Wrap(err, "fail to exchange authorization code")
	}

	resp, err := g.config.Client(c.Request.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch user info")
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "fail to decode user info")
	}
	if info.Email == "" {
		return nil, errors.New("user info has no email")
	}
	return &info, nil
}

// GoogleLogin kicks off the code flow. The random state round-trips through
// a short lived cookie and is checked on callback.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state := utils.RandomAlphabetString(stateLength)
	c.SetCookie(oauthStateCookie, state, int(5*time.Minute/time.Second), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Google.config.AuthCodeURL(state))
}

// GoogleCallback finishes the code flow: verify state, exchange the code,
// then find-or-create the local account keyed by email and issue a session
// token for it.
func (h *Handler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oauth state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	info, err := h.Google.fetchUserInfo(c, code)
	if err != nil {
		Logger.Log.Error("google oauth callback failed: ", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "oauth sign-in failed"})
		return
	}

	var user model.User
	res := h.DB.Where("email = ?", info.Email).First(&user)
	if res.RowsAffected == 0 {
		// First OAuth sign-in creates the account. No password hash, the
		// account can only sign in through the provider until one is set.
		user = model.User{
			Id:        uuid.New().String(),
			CreatedAt: time.Now(),
			Name:      info.Name,
			Email:     info.Email,
			AvatarUrl: info.Picture,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			Logger.Log.Error("fail to create oauth user: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	token, err := IssueSessionToken(user.Id)
	if err != nil {
		Logger.Log.Error("fail to issue session token: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": &user})
}
