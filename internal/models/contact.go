package models

// ContactMessage is a submission of the public contact form
type ContactMessage struct {
	Name           string `json:"name" form:"name" binding:"required,max=100"`
	Email          string `json:"email" form:"email" binding:"required,email,max=200"`
	Message        string `json:"message" form:"message" binding:"required,max=5000"`
	RecaptchaToken string `json:"-" form:"g-recaptcha-response"`
}

// ContactResponse is returned by the JSON contact endpoint
type ContactResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
