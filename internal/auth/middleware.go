package auth

import (
	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/misc"
)

const ginUserKey = "authUser"

// VerifyUser gates a route group on a valid session cookie. The resolved
// user is stashed in the gin context for handlers downstream.
func (a *Auth) VerifyUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		stok, _ := c.Cookie(CookieName)
		u := a.CheckToken(stok)
		if u == nil {
			c.AbortWithStatusJSON(401, misc.StatusErr("invalid or expired session"))
			return
		}
		c.Set(ginUserKey, u)
		c.Next()
	}
}

// GetCtxUser returns the user VerifyUser stored, nil outside a verified
// route.
func GetCtxUser(c *gin.Context) *User {
	if v, ok := c.Get(ginUserKey); ok {
		if u, ok := v.(*User); ok {
			return u
		}
	}
	return nil
}

func (a *Auth) SignUpHandler(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := misc.BindJSON(c, &req); err != nil {
		c.JSON(400, misc.StatusErr("invalid request"))
		return
	}

	var u *User
	err := a.db.Update(func(tx *bolt.Tx) (err error) {
		u, err = a.SignUpTx(tx, req.Name, req.Email, req.Password)
		return
	})
	if err != nil {
		c.JSON(400, misc.StatusErr(err.Error()))
		return
	}
	c.JSON(200, misc.StatusOK(u.Id))
}

func (a *Auth) SignInHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := misc.BindJSON(c, &req); err != nil {
		c.JSON(400, misc.StatusErr("invalid request"))
		return
	}

	u, stok, err := a.SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(400, misc.StatusErr(err.Error()))
		return
	}
	c.SetCookie(CookieName, stok, int(a.tokenAge().Seconds()), "/", "", false, true)
	c.JSON(200, u.Trim())
}

func (a *Auth) SignOutHandler(c *gin.Context) {
	if stok, _ := c.Cookie(CookieName); stok != "" {
		a.SignOut(stok)
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.JSON(200, misc.StatusOK(""))
}
