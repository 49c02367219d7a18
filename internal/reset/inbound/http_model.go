package inbound

type IssueCodeRequest struct {
	Email string `json:"email"`
}

type IssueCodeResponse struct{}

func (IssueCodeResponse) Message() string {
	return "A reset code has been sent to your email."
}

type VerifyCodeAndResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type VerifyCodeAndResetResponse struct{}

func (VerifyCodeAndResetResponse) Message() string {
	return "Your password has been changed successfully."
}
