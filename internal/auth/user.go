package auth

// User 登录用户的身份快照。签发会话时从 persons 表拷贝一份，
// 之后账号信息变更不影响已签发的会话，重新登录才会刷新。
type User struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Role     string  `json:"role"` // 粗粒度标签：user / admin
	RoleID   *uint   `json:"role_id"`
	RoleName *string `json:"role_name"`
	UnitID   *uint   `json:"unit_id"`
	UnitName *string `json:"unit_name"`
}

// IsAdmin 管理员判断：依据角色名
func (u *User) IsAdmin() bool {
	return u.RoleName != nil && *u.RoleName == "admin"
}

// SameUnit 判断资源所属单位是否和当前用户一致（nil 视为不一致）
func (u *User) SameUnit(unitID *uint) bool {
	if u.UnitID == nil || unitID == nil {
		return false
	}
	return *u.UnitID == *unitID
}
