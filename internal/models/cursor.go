package models

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Cursor pagination defaults. Limits above maxCursorLimit are clamped so a
// single page can never scan an unbounded range.
const (
	DefaultCursorLimit = 10
	MaxCursorLimit     = 100
)

// CursorClaims carries the resume position of a paginated listing. Zero
// values mean the field is absent; an absent CreatedAt is replaced with the
// current time so the first page starts at the head of the list.
type CursorClaims struct {
	ID        uint      `json:"-"`
	UserID    uint      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// cursorPayload is the wire form of CursorClaims.
type cursorPayload struct {
	ID        uint   `json:"id,omitempty"`
	UserID    uint   `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DefaultCursorClaims returns claims pointing at the start of a listing.
func DefaultCursorClaims() CursorClaims {
	return CursorClaims{CreatedAt: time.Now().UTC()}
}

// EncodeCursor serializes claims into an opaque page token.
func EncodeCursor(claims CursorClaims) string {
	payload := cursorPayload{
		ID:     claims.ID,
		UserID: claims.UserID,
	}
	if !claims.CreatedAt.IsZero() {
		payload.CreatedAt = claims.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque page token. Any malformed input (bad base64,
// bad JSON, bad timestamp) degrades to the default claims and false; clients
// holding a stale or corrupted token simply restart from the top of the list.
func DecodeCursor(token string) (CursorClaims, bool) {
	if token == "" {
		return DefaultCursorClaims(), false
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return DefaultCursorClaims(), false
	}

	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return DefaultCursorClaims(), false
	}

	claims := CursorClaims{
		ID:        payload.ID,
		UserID:    payload.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if payload.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, payload.CreatedAt)
		if err != nil {
			return DefaultCursorClaims(), false
		}
		claims.CreatedAt = ts.UTC()
	}

	return claims, true
}

// PreprocessCursor normalizes the cursor token and requested page size into
// claims and an effective limit.
func PreprocessCursor(token string, limit int) (CursorClaims, int) {
	claims, _ := DecodeCursor(token)

	if limit <= 0 {
		limit = DefaultCursorLimit
	}
	if limit > MaxCursorLimit {
		limit = MaxCursorLimit
	}

	return claims, limit
}

// NextCursor derives the follow-up page token from the last thread of a page.
// An empty page yields an empty token.
func NextCursor(threads []*Thread) string {
	if len(threads) == 0 {
		return ""
	}
	last := threads[len(threads)-1]
	return EncodeCursor(CursorClaims{ID: last.ID, CreatedAt: last.CreatedAt})
}
