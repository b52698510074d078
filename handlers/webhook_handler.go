package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// webhookTolerance bounds how old a signed delivery may be.
const webhookTolerance = 5 * time.Minute

type UserService interface {
	InitUser(ctx context.Context, clerkID string) error
	DeleteUserData(ctx context.Context, clerkID string) error
}

type clerkWebhookEvent struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type WebhookHandler struct {
	userService UserService
	secret      string
	now         func() time.Time
}

// NewWebhookHandler verifies deliveries against secret, a Clerk "whsec_"
// signing secret. An empty secret disables verification for local setups.
func NewWebhookHandler(userService UserService, secret string) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
		secret:      secret,
		now:         time.Now,
	}
}

// POST /webhooks/clerk
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("Webhook: error reading body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := h.verifySignature(r.Header, body); err != nil {
		log.Printf("Webhook: invalid signature: %v", err)
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Webhook: error parsing event: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data, &data); err != nil {
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook data")
		return
	}

	log.Printf("Webhook: received %s for %s", event.Type, data.ID)

	switch event.Type {
	case "user.created":
		err = h.userService.InitUser(ctx, data.ID)
	case "user.deleted":
		err = h.userService.DeleteUserData(ctx, data.ID)
	default:
		log.Printf("Webhook: unhandled event type: %s", event.Type)
	}
	if err != nil {
		respondWithServiceError(w, "process webhook", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// verifySignature checks the svix headers Clerk signs deliveries with:
// base64(HMAC-SHA256(key, id + "." + timestamp + "." + body)), where key is
// the base64 part of the secret and the header may list several "v1,<sig>".
func (h *WebhookHandler) verifySignature(header http.Header, body []byte) error {
	if h.secret == "" {
		return nil
	}

	svixID := header.Get("svix-id")
	svixTimestamp := header.Get("svix-timestamp")
	svixSignature := header.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return fmt.Errorf("missing signature headers")
	}

	ts, err := strconv.ParseInt(svixTimestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %q", svixTimestamp)
	}
	if d := h.now().Sub(time.Unix(ts, 0)); d > webhookTolerance || d < -webhookTolerance {
		return fmt.Errorf("timestamp outside tolerance")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h.secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("bad webhook secret: %w", err)
	}

	expected := signWebhook(key, svixID, svixTimestamp, body)
	for _, candidate := range strings.Fields(svixSignature) {
		version, sig, ok := strings.Cut(candidate, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

func signWebhook(key []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
