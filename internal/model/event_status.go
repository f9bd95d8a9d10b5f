package model

import "time"

// EventStatus 活動狀態類型，永遠由時間推導，不寫入資料庫
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted:
		return true
	}
	return false
}

// rank 依時間先後排序：upcoming -> ongoing -> completed
func (s EventStatus) rank() int {
	switch s {
	case EventStatusUpcoming:
		return 0
	case EventStatusOngoing:
		return 1
	case EventStatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo 狀態只能往前推進，不能倒退
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	return target.rank() >= s.rank()
}

// MissingRegistrationPolicy 決定沒有報名開放時間的活動如何計算狀態
type MissingRegistrationPolicy string

const (
	// MissingRegistrationUpcoming 沒有 ongoing 區間：活動日前都是 upcoming
	MissingRegistrationUpcoming MissingRegistrationPolicy = "upcoming"
	// MissingRegistrationEpoch 視為 epoch，活動日前立即進入 ongoing
	MissingRegistrationEpoch MissingRegistrationPolicy = "epoch"
)

// ParseMissingRegistrationPolicy 無法辨識的值回到預設的 upcoming
func ParseMissingRegistrationPolicy(v string) MissingRegistrationPolicy {
	if MissingRegistrationPolicy(v) == MissingRegistrationEpoch {
		return MissingRegistrationEpoch
	}
	return MissingRegistrationUpcoming
}

// StatusResolver 依時間窗計算活動狀態。純函式，可在每次請求時呼叫
type StatusResolver struct {
	MissingRegistration MissingRegistrationPolicy
}

func NewStatusResolver(policy MissingRegistrationPolicy) StatusResolver {
	return StatusResolver{MissingRegistration: policy}
}

// Resolve
//
//	now > date                    -> completed
//	registration <= now <= date   -> ongoing
//	now < registration            -> upcoming
func (r StatusResolver) Resolve(e *Event, now time.Time) EventStatus {
	if now.After(e.Date) {
		return EventStatusCompleted
	}

	opensAt := e.Registration
	if opensAt == nil {
		if r.MissingRegistration != MissingRegistrationEpoch {
			return EventStatusUpcoming
		}
		epoch := time.Unix(0, 0)
		opensAt = &epoch
	}

	if !now.Before(*opensAt) {
		return EventStatusOngoing
	}
	return EventStatusUpcoming
}

// ResolveStatus 使用預設策略 (upcoming) 計算狀態
func ResolveStatus(e *Event, now time.Time) EventStatus {
	return StatusResolver{MissingRegistration: MissingRegistrationUpcoming}.Resolve(e, now)
}
