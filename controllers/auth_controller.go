package controllers

import (
    "context"
    "log"
    "net/http"
    "os"
    "strconv"

    "github.com/gin-gonic/gin"
    "github.com/vnkhanh/invite-server/config"
    "github.com/vnkhanh/invite-server/middleware"
    "github.com/vnkhanh/invite-server/models"
    "github.com/vnkhanh/invite-server/services"
    "github.com/vnkhanh/invite-server/utils"
    "google.golang.org/api/idtoken"
)

type RegisterReq struct {
    Name     string `json:"name" binding:"required,min=1"`
    Email    string `json:"email"`
    Password string `json:"password" binding:"required,min=6"`
    Invite   string `json:"invite"` // hidden-field equivalent of the signup form
}

// Register creates an account. Without an invite it only works when open
// signup is enabled; with a pending invite the email comes from the invite
// and the invite is consumed after the account exists.
func Register(c *gin.Context) {
    var req RegisterReq
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
        return
    }

    redeemer := newRedeemer()

    // Pending invite: attached by InviteContext, or resubmitted in the body.
    var pending *services.PendingInvite
    if v, ok := c.Get(middleware.CtxPendingInvite); ok {
        pending = v.(*services.PendingInvite)
    }
    if pending == nil && req.Invite != "" {
        p, err := redeemer.Lookup(req.Invite)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot check invite"})
            return
        }
        pending = p
    }

    if pending == nil && os.Getenv("ALLOW_OPEN_SIGNUP") != "true" {
        c.JSON(http.StatusForbidden, gin.H{"message": "Registration is invite only"})
        return
    }

    email := req.Email
    if pending != nil {
        email = pending.Email
    }
    if !utils.ValidEmail(email) {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid email address"})
        return
    }

    var count int64
    config.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
    if count > 0 {
        c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
        return
    }

    hash, err := utils.HashPassword(req.Password)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot hash password"})
        return
    }

    user := models.User{
        Name:     req.Name,
        Email:    email,
        Password: hash,
    }
    if err := config.DB.Create(&user).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot create account"})
        return
    }

    if pending != nil {
        // The account exists either way; a stale invite or a grant failure
        // must not undo the signup.
        if err := redeemer.Complete(user.ID, pending.Token); err != nil {
            log.Printf("invite %s redemption for user %d: %v", pending.Token, user.ID, err)
        }
        middleware.ClearInviteCookie(c)
        config.DB.First(&user, user.ID) // reload email/confirmation set by redemption
    }

    c.JSON(http.StatusCreated, gin.H{"user": publicUser(user)})
}

type LoginReq struct {
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
    var req LoginReq
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
        return
    }

    var user models.User
    if err := config.DB.Where("email = ? AND is_system = ?", req.Email, false).First(&user).Error; err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"message": "Wrong email or password"})
        return
    }
    if !utils.CheckPassword(user.Password, req.Password) {
        c.JSON(http.StatusUnauthorized, gin.H{"message": "Wrong email or password"})
        return
    }

    token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), roleOf(user))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot sign token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"token": token, "user": publicUser(user)})
}

type GoogleLoginReq struct {
    IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler verifies a Google ID token and signs the user in,
// creating the account on first login when open signup allows it.
func GoogleLoginHandler(c *gin.Context) {
    var req GoogleLoginReq
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
        return
    }

    clientID := os.Getenv("GOOGLE_CLIENT_ID")
    if clientID == "" {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Google login is not configured"})
        return
    }

    payload, err := idtoken.Validate(context.Background(), req.IDToken, clientID)
    if err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
        return
    }
    email, _ := payload.Claims["email"].(string)
    name, _ := payload.Claims["name"].(string)
    if email == "" {
        c.JSON(http.StatusUnauthorized, gin.H{"message": "Google token has no email"})
        return
    }

    var user models.User
    err = config.DB.Where("email = ?", email).First(&user).Error
    if err != nil {
        if os.Getenv("ALLOW_OPEN_SIGNUP") != "true" {
            c.JSON(http.StatusForbidden, gin.H{"message": "Registration is invite only"})
            return
        }
        user = models.User{Name: name, Email: email, EmailConfirmed: true}
        if err := config.DB.Create(&user).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot create account"})
            return
        }
    }

    token, err := utils.GenerateToken(strconv.FormatUint(uint64(user.ID), 10), roleOf(user))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot sign token"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"token": token, "user": publicUser(user)})
}

// Me returns the authenticated user plus their current group memberships.
func Me(c *gin.Context) {
    u := c.MustGet(middleware.CtxUser).(models.User)

    groups := &services.GormGroups{DB: config.DB}
    names, err := groups.ListGroups(u.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"message": "Cannot read groups"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"user": publicUser(u), "groups": names})
}

func roleOf(u models.User) string {
    if u.IsAdmin {
        return "admin"
    }
    return "user"
}

func publicUser(u models.User) gin.H {
    return gin.H{
        "id":              u.ID,
        "name":            u.Name,
        "email":           u.Email,
        "email_confirmed": u.EmailConfirmed,
        "is_admin":        u.IsAdmin,
        "created_at":      u.CreatedAt,
    }
}
