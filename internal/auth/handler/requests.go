package handler

// credentialsRequest serves both sign-up and sign-in; display_name is only
// read at sign-up.
type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}
