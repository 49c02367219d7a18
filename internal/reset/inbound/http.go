package inbound

import (
	"context"

	"github.com/kodapp/resetgate/internal/pkg/router"
	"github.com/kodapp/resetgate/internal/reset/usecase"
)

type uc interface {
	IssueCode(ctx context.Context, in usecase.IssueCodeInput) error
	VerifyCodeAndReset(ctx context.Context, in usecase.VerifyCodeAndResetInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/reset/code", end.IssueCode) // need authenticated
	r.POST("/api/v1/reset/password", end.VerifyCodeAndReset)
}
