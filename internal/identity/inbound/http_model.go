package inbound

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignupResponse struct{}

func (SignupResponse) Message() string {
	return "Account created. Check your email for the confirmation code."
}

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct{}

func (LoginResponse) Message() string {
	return "We sent a sign-in code to your email."
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyResponse struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

func (VerifyResponse) Message() string {
	return "Signed in."
}
