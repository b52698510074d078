package notification

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required,max=4096"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
	// Timezone falls back to the X-Timezone header when omitted.
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

type UnregisterDeviceRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}
