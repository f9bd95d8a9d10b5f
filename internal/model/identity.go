package model

const AnonymousUserName = "Anonymous User"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Identity 由身分提供者簽發的目前使用者，服務端信任不再驗證
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	Role        Role
}

// IsAuthenticated nil 或沒有 UserID 都視為未登入
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.UserID != ""
}

func (i *Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

// SnapshotName 報名時寫入的名稱，空白時為 Anonymous User
func (i *Identity) SnapshotName() string {
	if i == nil || i.DisplayName == "" {
		return AnonymousUserName
	}
	return i.DisplayName
}
