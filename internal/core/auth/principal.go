package auth

// Principal identifies the authenticated actor for a request. Services
// receive it explicitly on every authorization-sensitive call. The zero
// value is the anonymous principal.
type Principal struct {
	UserID int64 `json:"userId"`
	// BlogID is the acting blog for this request. Post ownership keys
	// off this, not the user id: a post belongs to a blog.
	BlogID int64 `json:"blogId"`
	// Admin grants the management override: admins may manage content
	// owned by any blog.
	Admin bool `json:"admin"`
}

// Anonymous reports whether p is unauthenticated.
func (p Principal) Anonymous() bool {
	return p.UserID == 0
}

// CanManage reports whether the principal may modify content owned by
// blog blogID: the acting blog itself, or an admin override.
func (p Principal) CanManage(blogID int64) bool {
	if p.Anonymous() {
		return false
	}
	return p.BlogID == blogID || p.Admin
}

// CanManageUser reports whether the principal may manage resources
// owned by user userID (blog settings, active-blog switching).
func (p Principal) CanManageUser(userID int64) bool {
	if p.Anonymous() {
		return false
	}
	return p.UserID == userID || p.Admin
}
