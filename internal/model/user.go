package model

import "time"

// Gender enumerates the gender options offered during signup.
type Gender string

// Gender values accepted by the signup flow.
const (
    GenderMale   Gender = "MALE"
    GenderFemale Gender = "FEMALE"
    GenderOther  Gender = "OTHER"
)

// UserStatus enumerates the review states of a registered user.  A user
// starts PENDING, is ACCEPTED or REJECTED by an admin, and becomes BANNED
// permanently once the rejection count reaches the ban threshold.
type UserStatus string

// User review states.
const (
    UserPending  UserStatus = "PENDING"
    UserAccepted UserStatus = "ACCEPTED"
    UserRejected UserStatus = "REJECTED"
    UserBanned   UserStatus = "BANNED"
)

// BanThreshold is the rejection count at which a user becomes BANNED.
// The transition is irreversible; there is no unban path.
const BanThreshold = 3

// User represents a registered patient record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The
// WhatsApp number doubles as the conversation-state key, so it is unique.
//
// Fields:
//  ID             – primary key identifier (UUID).
//  WhatsAppNumber – sender identifier on the messaging platform (unique).
//  FullName       – full name collected during signup.
//  Age            – age collected during signup (1–120).
//  Gender         – gender option chosen during signup.
//  Passport       – passport identifier collected during signup.
//  Status         – review state (PENDING, ACCEPTED, REJECTED, BANNED).
//  RejectionCount – number of admin rejections; monotonic until ban.
//  IsBanned       – true once RejectionCount reaches BanThreshold.
//  AdminNotes     – optional free-text notes left by an admin.
//  CounselorID    – assigned counselor, set by the medication workflow.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
    ID             string     `json:"id"`              // users.id
    WhatsAppNumber string     `json:"whatsapp_number"` // users.whatsapp_number
    FullName       string     `json:"full_name"`       // users.full_name
    Age            int        `json:"age"`             // users.age
    Gender         Gender     `json:"gender"`          // users.gender
    Passport       string     `json:"passport"`        // users.passport
    Status         UserStatus `json:"status"`          // users.status
    RejectionCount int        `json:"rejection_count"` // users.rejection_count
    IsBanned       bool       `json:"is_banned"`       // users.is_banned
    AdminNotes     *string    `json:"admin_notes"`     // users.admin_notes (nullable)
    CounselorID    *string    `json:"counselor_id"`    // users.counselor_id (nullable)
    CreatedAt      time.Time  `json:"created_at"`      // users.created_at
    UpdatedAt      time.Time  `json:"updated_at"`      // users.updated_at
}

// ParseGender maps free-form conversational input onto a Gender value.
// Accepted inputs are the option number shown in the button prompt ("1",
// "2", "3") or the option word in any case.  The boolean reports whether
// the input matched an option.
func ParseGender(text string) (Gender, bool) {
    switch normalizeOption(text) {
    case "1", "male":
        return GenderMale, true
    case "2", "female":
        return GenderFemale, true
    case "3", "other":
        return GenderOther, true
    }
    return "", false
}

// ValidUserStatus reports whether s is one of the recognised user states.
func ValidUserStatus(s UserStatus) bool {
    switch s {
    case UserPending, UserAccepted, UserRejected, UserBanned:
        return true
    }
    return false
}
