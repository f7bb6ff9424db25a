// Package user holds the chatbot user identity model.
package user

// ServiceKakaoID marks the synthetic service account used for
// system-originated upstream calls.
const ServiceKakaoID = "__SERVICE__"

// User links a chat user's Kakao identifiers to the internal user id the
// upstream services understand.
type User struct {
	ID                int64  `db:"id" json:"id"`
	KakaoID           string `db:"kakao_id" json:"kakao_id"`
	PlusfriendUserKey string `db:"plusfriend_user_key" json:"plusfriend_user_key,omitempty"`
	AppUserID         string `db:"app_user_id" json:"app_user_id,omitempty"`
	KakaoAdmin        bool   `db:"kakao_admin" json:"kakao_admin"`
}

// IsService reports whether this is the bootstrap service account.
func (u User) IsService() bool { return u.KakaoID == ServiceKakaoID }
