// package services wraps the video API's resources behind a uniform request envelope
package services

import (
	"net/http"
)

// Client groups the resource services sharing one [APIService].
type Client struct {
	API           *APIService
	Auth          *AuthService
	Videos        *VideoService
	Comments      *CommentService
	Likes         *LikeService
	Subscriptions *SubscriptionService
}

// NewClient builds every resource service on top of a single [APIService].
func NewClient(baseURL string, httpClient *http.Client, tokens TokenStore) *Client {
	return NewClientFromAPI(NewAPIService(baseURL, httpClient, tokens))
}

// NewClientFromAPI builds the resource services around an existing api.
func NewClientFromAPI(api *APIService) *Client {
	return &Client{
		API:           api,
		Auth:          NewAuthService(api),
		Videos:        NewVideoService(api),
		Comments:      NewCommentService(api),
		Likes:         NewLikeService(api),
		Subscriptions: NewSubscriptionService(api),
	}
}
