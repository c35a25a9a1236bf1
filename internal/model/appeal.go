package model

import "time"

// AppealStatus enumerates the review states of an appeal.
type AppealStatus string

// Appeal review states.
const (
    AppealPending  AppealStatus = "PENDING"
    AppealAccepted AppealStatus = "ACCEPTED"
    AppealRejected AppealStatus = "REJECTED"
)

// Appeal is a rejected user's request for re-review, mirroring the
// `appeals` table.  A user may hold at most one PENDING appeal at a time;
// the rule is enforced in the appeal service, not by the schema.
//
// Fields:
//  ID         – primary key identifier (UUID).
//  UserID     – the appealing user.
//  Reason     – free-text reason provided in the appeal flow (≥ 10 chars).
//  Status     – review state (PENDING, ACCEPTED, REJECTED).
//  AdminNotes – optional notes left by the reviewing admin.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Appeal struct {
    ID         string       `json:"id"`          // appeals.id
    UserID     string       `json:"user_id"`     // appeals.user_id
    Reason     string       `json:"reason"`      // appeals.reason
    Status     AppealStatus `json:"status"`      // appeals.status
    AdminNotes *string      `json:"admin_notes"` // appeals.admin_notes (nullable)
    CreatedAt  time.Time    `json:"created_at"`  // appeals.created_at
    UpdatedAt  time.Time    `json:"updated_at"`  // appeals.updated_at
}

// ValidAppealStatus reports whether s is one of the recognised appeal states.
func ValidAppealStatus(s AppealStatus) bool {
    switch s {
    case AppealPending, AppealAccepted, AppealRejected:
        return true
    }
    return false
}
