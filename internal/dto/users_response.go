package dto

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type AvatarResponse struct {
	AvatarPath string `json:"avatarPath"`
}
