package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration 使用者報名紀錄。每個 (EventID, UserID) 最多一筆，建立後不再修改。
//
// UserName 與 UserEmail 是報名當下的身分快照，之後使用者改名或換信箱都不會回寫到既有紀錄。
type Registration struct {
	ID           uuid.UUID `json:"id" db:"registration_id"`
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	UserName     string    `json:"user_name" db:"user_name"`
	UserEmail    string    `json:"user_email" db:"user_email"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// RegistrationMessage 報名成功後送進佇列的訊息
type RegistrationMessage struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	EventID        uuid.UUID `json:"event_id"`
	UserID         string    `json:"user_id"`
	RegisteredAt   time.Time `json:"registered_at"`
}

func NewRegistrationMessage(r *Registration) *RegistrationMessage {
	return &RegistrationMessage{
		RegistrationID: r.ID,
		EventID:        r.EventID,
		UserID:         r.UserID,
		RegisteredAt:   r.RegisteredAt,
	}
}

// OrphanPolicy 活動刪除後，其報名紀錄的處理方式
type OrphanPolicy string

const (
	OrphanPolicyKeep  OrphanPolicy = "keep"
	OrphanPolicyPurge OrphanPolicy = "purge"
	OrphanPolicyHide  OrphanPolicy = "hide"
)

// ParseOrphanPolicy 無法辨識的值回到 keep
func ParseOrphanPolicy(v string) OrphanPolicy {
	switch OrphanPolicy(v) {
	case OrphanPolicyPurge, OrphanPolicyHide:
		return OrphanPolicy(v)
	}
	return OrphanPolicyKeep
}
