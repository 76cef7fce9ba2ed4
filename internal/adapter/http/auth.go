package httpadapter

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"petkeeper/internal/domain/petting"

	"github.com/cloudwego/hertz/pkg/app"
)

var (
	errMissingSecret  = errors.New("missing api secret")
	errBadSecret      = errors.New("invalid api secret")
	errMissingSession = errors.New("no authenticated session")
)

// requireSecret accepts the shared secret either as an X-Report-Secret
// header or as a bearer token. Comparison is constant-time.
func (h Handler) requireSecret(ctx *app.RequestContext) error {
	presented := string(ctx.GetHeader("X-Report-Secret"))
	if presented == "" {
		auth := string(ctx.GetHeader("Authorization"))
		if rest, ok := strings.CutPrefix(auth, "Bearer "); ok {
			presented = rest
		}
	}
	if presented == "" {
		return errMissingSecret
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.Secret)) != 1 {
		return errBadSecret
	}
	return nil
}

// ownerFromSession reads the wallet address carried by the auth_session
// cookie set at sign-in. The address must be well-formed; everything else
// about it is checked downstream.
func ownerFromSession(ctx *app.RequestContext) (string, error) {
	raw := string(ctx.Cookie("auth_session"))
	if raw == "" {
		return "", errMissingSession
	}
	addr, ok := petting.NormalizeAddress(raw)
	if !ok {
		return "", errMissingSession
	}
	return addr, nil
}

func nowMilli() int64 {
	return time.Now().UnixMilli()
}
