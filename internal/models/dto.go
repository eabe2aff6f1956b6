package models

import (
	"time"
)

// User is an account as returned by the users endpoints.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"fullName"`
	Avatar    string    `json:"avatar,omitempty"`
	CoverImg  string    `json:"coverImage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Owner is the embedded author of a video or comment.
type Owner struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Channel is a public channel profile (GET /users/c/:username).
type Channel struct {
	ID                   string `json:"_id"`
	Username             string `json:"username"`
	FullName             string `json:"fullName"`
	Avatar               string `json:"avatar,omitempty"`
	CoverImg             string `json:"coverImage,omitempty"`
	SubscribersCount     int    `json:"subscribersCount"`
	ChannelsSubscribedTo int    `json:"channelsSubscribedToCount"`
	IsSubscribed         bool   `json:"isSubscribed"`
}

// Video is a single video with its owner and engagement counters.
type Video struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"` // seconds
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Owner       Owner     `json:"owner"`
	LikesCount  int       `json:"likesCount"`
	IsLiked     bool      `json:"isLiked"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DurationSeconds returns the duration rounded to whole seconds.
func (v Video) DurationSeconds() int {
	return int(v.Duration + 0.5)
}

// Comment is a comment on a video.
type Comment struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	Video      string    `json:"video"`
	Owner      Owner     `json:"owner"`
	LikesCount int       `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Page is the paginated list shape shared by every list endpoint.
type Page[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"totalDocs"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	NextPage    *int `json:"nextPage"`
}

// Next returns the page to request after this one, or 0 when there is none.
func (p Page[T]) Next() int {
	if !p.HasNextPage {
		return 0
	}
	if p.NextPage != nil {
		return *p.NextPage
	}
	return p.Page + 1
}

// LikeStatus is the authoritative like state returned by a toggle.
type LikeStatus struct {
	IsLiked    bool `json:"isLiked"`
	LikesCount int  `json:"likesCount"`
}

// SubscriptionStatus is the authoritative subscription state returned by a toggle.
type SubscriptionStatus struct {
	IsSubscribed     bool `json:"isSubscribed"`
	SubscribersCount int  `json:"subscribersCount"`
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	ID         string    `json:"_id"`
	Subscriber Owner     `json:"subscriber"`
	Channel    Owner     `json:"channel"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Credentials are the login form fields. Either Username or Email identifies the account.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginResponse is the data payload of POST /users/login.
type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
