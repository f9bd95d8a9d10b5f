package model

import (
	"time"

	"github.com/google/uuid"
)

// DisplayFallback 未設定的顯示欄位 (time / location) 一律顯示 TBA
const DisplayFallback = "TBA"

// Event 社團活動
type Event struct {
	ID           uuid.UUID  `json:"id" db:"event_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Date         time.Time  `json:"date" db:"date"`
	Registration *time.Time `json:"registration,omitempty" db:"registration"`
	Time         *string    `json:"time,omitempty" db:"time"`
	Location     *string    `json:"location,omitempty" db:"location"`
	ImageRef     *string    `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// DisplayTime 回傳活動開始時間字串，未設定時為 TBA
func (e *Event) DisplayTime() string {
	if e.Time == nil || *e.Time == "" {
		return DisplayFallback
	}
	return *e.Time
}

// DisplayLocation 回傳活動地點，未設定時為 TBA
func (e *Event) DisplayLocation() string {
	if e.Location == nil || *e.Location == "" {
		return DisplayFallback
	}
	return *e.Location
}

type UpdateEventParams struct {
	Title        *string
	Description  *string
	Date         *time.Time
	Registration *time.Time
	Time         *string
	Location     *string
	ImageRef     *string
}

// IsEmpty 沒有任何欄位需要更新
func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil &&
		p.Registration == nil && p.Time == nil && p.Location == nil && p.ImageRef == nil
}

// EventResponse 活動響應，附帶依目前時間計算出的狀態
type EventResponse struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Date         time.Time   `json:"date"`
	Registration *time.Time  `json:"registration,omitempty"`
	Time         string      `json:"time"`
	Location     string      `json:"location"`
	ImageRef     *string     `json:"image_ref,omitempty"`
	Status       EventStatus `json:"status"`
}

func NewEventResponse(e *Event, status EventStatus) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Date:         e.Date,
		Registration: e.Registration,
		Time:         e.DisplayTime(),
		Location:     e.DisplayLocation(),
		ImageRef:     e.ImageRef,
		Status:       status,
	}
}
