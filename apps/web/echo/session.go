package echoweb

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/user"
)

const sessionCookie = "edutracker_session"

var errInvalidSession = errors.New("invalid session")

// Claims is the shell state carried by the session cookie.
type Claims struct {
	jwt.StandardClaims
	Authenticated bool      `json:"authenticated"`
	Role          user.Role `json:"role,omitempty"`
	UserID        int       `json:"uid,omitempty"`
	StudentID     int       `json:"sid,omitempty"`
	Name          string    `json:"name,omitempty"`
}

type sessionStore struct {
	issuer string
	key    []byte
	ttl    time.Duration
	secure bool
}

func (ss sessionStore) encode(sh Shell) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ss.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ss.ttl).Unix(),
		},
		Authenticated: sh.Authenticated,
		Role:          sh.Role,
		UserID:        sh.UserID,
		StudentID:     sh.StudentID,
		Name:          sh.Name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ss.key)
	return signed, errors.Wrap(err, "signing session")
}

func (ss sessionStore) decode(tokenStr string) (Shell, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return ss.key, nil
	})
	if err != nil || !token.Valid {
		return Shell{}, errInvalidSession
	}

	sh := DefaultShell()
	sh.Authenticated = claims.Authenticated
	sh.UserID = claims.UserID
	if claims.Role != "" {
		sh.Role = claims.Role
	}
	if claims.StudentID > 0 {
		sh.StudentID = claims.StudentID
	}
	if claims.Name != "" {
		sh.Name = claims.Name
	}
	return sh, nil
}

// load reads the shell from the request cookie. A missing or invalid cookie yields DefaultShell.
func (ss sessionStore) load(ctx echo.Context) Shell {
	cookie, err := ctx.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return DefaultShell()
	}
	sh, err := ss.decode(cookie.Value)
	if err != nil {
		return DefaultShell()
	}
	return sh
}

func (ss sessionStore) save(ctx echo.Context, sh Shell) error {
	token, err := ss.encode(sh)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ss.ttl),
		HttpOnly: true,
		Secure:   ss.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
