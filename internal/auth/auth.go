package auth

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/misc"
)

const CookieName = "session"

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidPass  = errors.New("invalid password")
	ErrEmailTaken   = errors.New("email already registered")
)

type Auth struct {
	db  *bolt.DB
	cfg *config.Config
}

func New(db *bolt.DB, cfg *config.Config) *Auth {
	return &Auth{db: db, cfg: cfg}
}

type User struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"` // hashed, blanked before serving

	CreatedAt int64 `json:"createdAt"`
}

// Trim clears fields that never leave the server.
func (u *User) Trim() *User {
	c := *u
	c.Password = ""
	return &c
}

type Token struct {
	UserId  string `json:"userId"`
	Expires int64  `json:"expires"`
}

func (t *Token) IsValid(ts time.Time) bool {
	return t.UserId != "" && t.Expires > ts.UnixNano()
}

func trimEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Auth) tokenAge() time.Duration {
	return time.Duration(a.cfg.SessionTimeout) * time.Hour
}

func (a *Auth) GetUserTx(tx *bolt.Tx, email string) *User {
	var u User
	if misc.GetTxJson(tx, a.cfg.Bucket.User, trimEmail(email), &u) == nil && u.Id != "" {
		return &u
	}
	return nil
}

func (a *Auth) SignUpTx(tx *bolt.Tx, name, email, pass string) (*User, error) {
	email = trimEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(pass) < 8 {
		return nil, ErrInvalidPass
	}
	if a.GetUserTx(tx, email) != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := HashPassword(pass)
	if err != nil {
		return nil, err
	}
	u := &User{
		Id:        misc.PseudoUUID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now().Unix(),
	}
	if err := misc.PutTxJson(tx, a.cfg.Bucket.User, email, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *Auth) SignInTx(tx *bolt.Tx, email, pass string) (u *User, stok string, err error) {
	if u = a.GetUserTx(tx, email); u == nil {
		return nil, "", ErrInvalidEmail
	}
	if !CheckPassword(u.Password, pass) {
		return nil, "", ErrInvalidPass
	}
	stok = uuid.NewString()
	tok := &Token{UserId: u.Id, Expires: time.Now().Add(a.tokenAge()).UnixNano()}
	err = misc.PutTxJson(tx, a.cfg.Bucket.Token, stok, tok)
	return
}

func (a *Auth) SignIn(email, pass string) (u *User, stok string, err error) {
	a.db.Update(func(tx *bolt.Tx) error {
		u, stok, err = a.SignInTx(tx, email, pass)
		return nil
	})
	return
}

func (a *Auth) SignOut(stok string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		return misc.GetBucket(tx, a.cfg.Bucket.Token).Delete([]byte(stok))
	})
}

// CheckToken resolves a session token to its user, refreshing the expiry
// on each hit.
func (a *Auth) CheckToken(stok string) (u *User) {
	if stok == "" {
		return nil
	}
	a.db.Update(func(tx *bolt.Tx) (_ error) {
		var tok Token
		if misc.GetTxJson(tx, a.cfg.Bucket.Token, stok, &tok) != nil || !tok.IsValid(time.Now()) {
			return
		}
		var inner User
		misc.GetBucket(tx, a.cfg.Bucket.User).ForEach(func(k, v []byte) error {
			var cand User
			if json.Unmarshal(v, &cand) == nil && cand.Id == tok.UserId {
				inner = cand
			}
			return nil
		})
		if inner.Id == "" {
			return
		}
		u = &inner
		tok.Expires = time.Now().Add(a.tokenAge()).UnixNano()
		return misc.PutTxJson(tx, a.cfg.Bucket.Token, stok, &tok)
	})
	return
}

// PurgeInvalidTokens sweeps expired sessions. Run it in its own goroutine.
func (a *Auth) PurgeInvalidTokens() {
	for {
		a.db.Update(func(tx *bolt.Tx) error {
			b := misc.GetBucket(tx, a.cfg.Bucket.Token)
			ts := time.Now()
			return b.ForEach(func(k, v []byte) error {
				var tok Token
				if misc.GetTxJson(tx, a.cfg.Bucket.Token, string(k), &tok) != nil || !tok.IsValid(ts) {
					b.Delete(k)
				}
				return nil
			})
		})

		time.Sleep(time.Hour * 24)
	}
}
