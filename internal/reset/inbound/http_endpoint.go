package inbound

import (
	"github.com/kodapp/resetgate/internal/pkg/router"
	"github.com/kodapp/resetgate/internal/reset/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// IssueCode requests a one-time password reset code.
// @Summary Request reset code
// @Description Generates a 6-digit reset code and sends it to the account email.
// @Tags Reset
// @Security BearerAuth
// @Accept json
// @Param request body IssueCodeRequest true "Issue code payload"
// @Success 200 {object} router.successResponse{data=IssueCodeResponse}
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many reset requests"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/reset/code [post]
func (h *HTTPEndpoint) IssueCode(r *router.Request) (any, error) {
	var req IssueCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.IssueCode(r.Context(), usecase.IssueCodeInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return &IssueCodeResponse{}, nil
}

// VerifyCodeAndReset verifies a reset code and sets a new password.
// @Summary Verify code and reset password
// @Description Checks the submitted code and replaces the account password on a match.
// @Tags Reset
// @Accept json
// @Param request body VerifyCodeAndResetRequest true "Verify and reset payload"
// @Success 200 {object} router.successResponse{data=VerifyCodeAndResetResponse}
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "No reset code or unknown account"
// @Failure 408 {object} router.errorResponse "Reset code expired"
// @Failure 412 {object} router.errorResponse "Code already used or locked out"
// @Failure 422 {object} router.errorResponse "Validation error or code mismatch"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/reset/password [post]
func (h *HTTPEndpoint) VerifyCodeAndReset(r *router.Request) (any, error) {
	var req VerifyCodeAndResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyCodeAndReset(r.Context(), usecase.VerifyCodeAndResetInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return &VerifyCodeAndResetResponse{}, nil
}
