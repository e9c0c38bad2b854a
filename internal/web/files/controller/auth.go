package controller

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Laisky/datagate/internal/web/files/model"
	"github.com/Laisky/datagate/internal/web/files/service"
	"github.com/Laisky/datagate/library/jwt"
)

const ctxKeyUser = "datagate_user"

// authUserMw verifies the bearer token and loads the caller's user record.
// Verification failures never disclose why the token was rejected.
func authUserMw() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := authenticate(ctx)
		if err != nil {
			abortErr(ctx, err)
			return
		}

		ctx.Set(ctxKeyUser, user)
		ctx.Next()
	}
}

func authenticate(ctx *gin.Context) (*model.User, error) {
	token, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, model.NewError(model.ErrCodeUnauthenticated,
			"missing bearer token")
	}

	uc, err := jwt.Instance.Verify(token)
	if err != nil {
		return nil, model.NewError(model.ErrCodeUnauthenticated,
			"invalid authentication")
	}

	// a verified subject without a user record has not been provisioned
	user, err := service.Instance.GetUser(ctx, uc.Subject)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// requireElevatedMw gates admin routes, it must run after authUserMw.
func requireElevatedMw() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !userFrom(ctx).IsElevated() {
			abortErr(ctx, model.NewError(model.ErrCodeForbidden,
				"admin access required"))
			return
		}

		ctx.Next()
	}
}

func userFrom(ctx *gin.Context) *model.User {
	return ctx.MustGet(ctxKeyUser).(*model.User)
}
