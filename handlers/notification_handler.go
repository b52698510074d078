package handlers

import (
	"context"
	"net/http"
	"time"

	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/middleware"
)

type NotificationService interface {
	RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error)
	UnregisterDevice(ctx context.Context, clerkID, token string) error
	Notify(push notification.Push)
}

type NotificationHandler struct {
	notificationService NotificationService
}

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// POST /api/v1/notifications/register-device
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req notification.RegisterDeviceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Timezone == "" {
		if name := r.Header.Get(TimezoneHeader); name != "" {
			if _, err := time.LoadLocation(name); err == nil {
				req.Timezone = name
			}
		}
	}

	token, err := h.notificationService.RegisterDevice(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, "register device", err)
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

// DELETE /api/v1/notifications/register-device
func (h *NotificationHandler) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req notification.UnregisterDeviceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.notificationService.UnregisterDevice(ctx, clerkID, req.Token); err != nil {
		respondWithServiceError(w, "unregister device", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device unregistered"})
}

// POST /api/v1/notifications/test
func (h *NotificationHandler) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	clerkID, ok := middleware.GetClerkID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h.notificationService.Notify(notification.TestPush(clerkID))
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Test notification queued"})
}
