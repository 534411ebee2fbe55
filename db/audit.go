package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"tollgate/models"
)

// AuditLogger records incident mutations. Entries go to the audit_logs
// collection when a Firestore client is set and are always kept in memory
// and printed.
type AuditLogger struct {
	client *firestore.Client

	mu      sync.Mutex
	entries []models.AuditLog
	now     func() time.Time
}

// NewAuditLogger creates an audit logger. client may be nil.
func NewAuditLogger(client *firestore.Client) *AuditLogger {
	return &AuditLogger{client: client, now: time.Now}
}

// Record appends one entry. Persistence failures are logged, never returned.
func (a *AuditLogger) Record(ctx context.Context, userID, action, details string) {
	if a == nil {
		return
	}

	entry := models.AuditLog{
		LogID:     fmt.Sprintf("log-%s", uuid.NewString()),
		Timestamp: a.now().UTC().Format(time.RFC3339),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}

	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()

	log.Printf("📝 AUDIT: User '%s' performed action '%s' - Details: %s", userID, action, details)

	if a.client == nil {
		return
	}
	if _, err := a.client.Collection("audit_logs").Doc(entry.LogID).Set(ctx, entry); err != nil {
		log.Printf("⚠️  Failed to persist audit entry %s: %v", entry.LogID, err)
	}
}

// Entries returns the entries recorded by this process, oldest first.
func (a *AuditLogger) Entries() []models.AuditLog {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AuditLog(nil), a.entries...)
}
