package submitclient

import "strings"

// Form holds the four contact form fields as the visitor typed them.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	Message   string
}

// Ready reports whether the required fields are filled in. It is a local
// check only; the server validates again.
func (f *Form) Ready() bool {
	if f == nil {
		return false
	}
	return strings.TrimSpace(f.FirstName) != "" &&
		strings.TrimSpace(f.Email) != "" &&
		strings.TrimSpace(f.Message) != ""
}

// Clear resets every field after a successful submit.
func (f *Form) Clear() {
	*f = Form{}
}

type submitPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

func (f *Form) payload() submitPayload {
	return submitPayload{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Message:   f.Message,
	}
}
