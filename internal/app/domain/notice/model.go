// Package notice holds campus notice models mirroring the notice
// service's wire format.
package notice

import "time"

// Notice is one published announcement.
type Notice struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createAt"`
}

// Page is the paginated list envelope the notice service returns.
type Page struct {
	Items []Notice `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
}
