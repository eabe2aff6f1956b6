package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Fault overrides a sandbox route's response until cleared.
//
// A non-empty Body is written verbatim with ContentType, otherwise an API error with Message is written.
type Fault struct {
	Status      int
	Message     string
	Body        string
	ContentType string
}

type account struct {
	user     models.User
	password string
}

type subscription struct {
	id           string
	subscriberID string
	channelID    string
	created      time.Time
}

// Sandbox is an in-memory implementation of the video API.
//
// It serves the same routes and response shapes as the real backend and is safe for concurrent use.
type Sandbox struct {
	mu sync.RWMutex

	accounts      map[string]*account // by user ID
	tokens        map[string]string   // access token to user ID
	videos        map[string]*models.Video
	videoOrder    []string
	comments      map[string]*models.Comment
	commentOrder  []string
	likes         map[string]map[string]bool // target ID to liking user IDs
	subscriptions []subscription
	history       map[string][]string // user ID to video IDs, most recent first

	faults map[string]Fault
	calls  map[string]int
	last   time.Time
}

// NewSandbox creates an empty sandbox.
func NewSandbox() *Sandbox {
	return &Sandbox{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		videos:   make(map[string]*models.Video),
		comments: make(map[string]*models.Comment),
		likes:    make(map[string]map[string]bool),
		history:  make(map[string][]string),
		faults:   make(map[string]Fault),
		calls:    make(map[string]int),
	}
}

// NewSeededSandbox creates a sandbox populated by [Sandbox.Seed].
func NewSeededSandbox() *Sandbox {
	s := NewSandbox()
	s.Seed()
	return s
}

// Seed adds two demo channels with videos, comments and a subscription.
//
// Both accounts use the password "password".
func (s *Sandbox) Seed() {
	alice := s.AddUser("alice", "Alice Nguyen", "password")
	bob := s.AddUser("bob", "Bob Okafor", "password")

	intro := s.AddVideo(alice.ID, "Intro to Go concurrency", "Goroutines, channels and select.", 754)
	s.AddVideo(alice.ID, "Building a REST client", "Request envelopes and error handling.", 1290)
	s.AddVideo(alice.ID, "Terminal UIs with Bubble Tea", "The Elm architecture in the terminal.", 3725)
	bike := s.AddVideo(bob.ID, "Bike repair basics", "Fixing a flat in ten minutes.", 612)
	s.AddVideo(bob.ID, "Sourdough for beginners", "Starter, autolyse and shaping.", 1833)

	s.AddComment(intro.ID, bob.ID, "Great explanation of select!")
	s.AddComment(bike.ID, alice.ID, "Saved me a trip to the shop.")

	s.mu.Lock()
	s.likes[intro.ID] = map[string]bool{bob.ID: true}
	s.subscriptions = append(s.subscriptions, subscription{
		id: shared.GenerateID(), subscriberID: bob.ID, channelID: alice.ID, created: s.now(),
	})
	s.mu.Unlock()
}

// now returns a strictly increasing timestamp so creation order is stable.
func (s *Sandbox) now() time.Time {
	t := time.Now().UTC().Truncate(time.Millisecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Millisecond)
	}
	s.last = t
	return t
}

// AddUser registers an account.
func (s *Sandbox) AddUser(username, fullName, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{
		ID:        shared.GenerateID(),
		Username:  strings.ToLower(username),
		Email:     strings.ToLower(username) + "@example.com",
		FullName:  fullName,
		CreatedAt: s.now(),
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// AddVideo publishes a video owned by ownerID. Duration is in seconds.
func (s *Sandbox) AddVideo(ownerID, title, description string, duration float64) models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.accounts[ownerID]
	if owner == nil {
		panic(fmt.Sprintf("sandbox: unknown owner %q", ownerID))
	}

	id := shared.GenerateID()
	v := &models.Video{
		ID:          id,
		Title:       title,
		Description: description,
		VideoFile:   "https://cdn.example.com/videos/" + id + ".mp4",
		Thumbnail:   "https://cdn.example.com/thumbnails/" + id + ".jpg",
		Duration:    duration,
		IsPublished: true,
		Owner:       ownerOf(owner.user),
		CreatedAt:   s.now(),
	}
	s.videos[id] = v
	s.videoOrder = append(s.videoOrder, id)
	return *v
}

// AddComment posts content on a video as userID.
func (s *Sandbox) AddComment(videoID, userID, content string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addComment(videoID, s.accounts[userID].user, content)
}

func (s *Sandbox) addComment(videoID string, author models.User, content string) models.Comment {
	c := &models.Comment{
		ID:        shared.GenerateID(),
		Content:   content,
		Video:     videoID,
		Owner:     ownerOf(author),
		CreatedAt: s.now(),
	}
	s.comments[c.ID] = c
	s.commentOrder = append(s.commentOrder, c.ID)
	return *c
}

// IssueToken signs userID in without a password and returns the access token.
func (s *Sandbox) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := shared.GenerateID()
	s.tokens[token] = userID
	return token
}

// ResolveToken implements [TokenResolver].
func (s *Sandbox) ResolveToken(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	return id, ok
}

// RevokeTokens invalidates every token issued to userID.
func (s *Sandbox) RevokeTokens(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, id := range s.tokens {
		if id == userID {
			delete(s.tokens, t)
		}
	}
}

// Fail makes the route pattern (e.g. "POST /likes/toggle/v/{videoId}") respond with f until [Sandbox.Clear].
func (s *Sandbox) Fail(pattern string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[pattern] = f
}

// Clear removes the fault on pattern.
func (s *Sandbox) Clear(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, pattern)
}

// Calls returns how many requests the route pattern has received.
func (s *Sandbox) Calls(pattern string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[pattern]
}

// Handler returns a router serving the sandbox under prefix with logging, recovery and bearer auth.
func (s *Sandbox) Handler(prefix string, logger *log.Logger) http.Handler {
	r := NewBasicRouter(prefix)
	r.Use(Recoverer(logger), Logging(logger), Authenticate(s))
	r.Handler(s)
	return r
}

// Routes implements [Handler].
func (s *Sandbox) Routes() []Route {
	routes := []Route{
		{http.MethodGet, "/healthcheck", s.healthcheck},

		{http.MethodPost, "/users/login", s.login},
		{http.MethodPost, "/users/logout", s.logout},
		{http.MethodGet, "/users/current-user", s.currentUser},
		{http.MethodGet, "/users/c/{username}", s.channelProfile},
		{http.MethodGet, "/users/history", s.watchHistory},

		{http.MethodGet, "/videos", s.listVideos},
		{http.MethodGet, "/videos/explore", s.exploreVideos},
		{http.MethodGet, "/videos/suggestions", s.suggestions},
		{http.MethodGet, "/videos/{videoId}", s.getVideo},

		{http.MethodGet, "/comments/{videoId}", s.listComments},
		{http.MethodPost, "/comments/{videoId}", s.addCommentHandler},
		{http.MethodPatch, "/comments/c/{commentId}", s.updateComment},
		{http.MethodDelete, "/comments/c/{commentId}", s.deleteComment},

		{http.MethodPost, "/likes/toggle/v/{videoId}", s.toggleVideoLike},
		{http.MethodPost, "/likes/toggle/c/{commentId}", s.toggleCommentLike},
		{http.MethodGet, "/likes/videos", s.likedVideos},

		{http.MethodPost, "/subscriptions/c/{channelId}", s.toggleSubscription},
		{http.MethodGet, "/subscriptions/c/{channelId}", s.channelSubscribers},
		{http.MethodGet, "/subscriptions/channels", s.subscribedChannels},
	}

	for i, route := range routes {
		routes[i].Handler = s.instrument(route.Pattern(), route.Handler)
	}
	return routes
}

// instrument counts calls to pattern and applies any configured fault.
func (s *Sandbox) instrument(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[pattern]++
		fault, faulted := s.faults[pattern]
		s.mu.Unlock()

		if !faulted {
			next(w, r)
			return
		}

		if fault.Body != "" {
			ct := fault.ContentType
			if ct == "" {
				ct = "text/html; charset=utf-8"
			}
			w.Header().Set("Content-Type", ct)
			w.WriteHeader(fault.Status)
			_, _ = w.Write([]byte(fault.Body))
			return
		}
		writeError(w, fault.Status, fault.Message)
	}
}

func ownerOf(u models.User) models.Owner {
	return models.Owner{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// paginate returns the 1-indexed page of items.
func paginate[T any](items []T, page, limit int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(items)
	pages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	p := models.Page[T]{
		Docs:        slices.Clone(items[start:end]),
		TotalDocs:   total,
		Limit:       limit,
		Page:        page,
		TotalPages:  pages,
		HasNextPage: page < pages,
	}
	if p.Docs == nil {
		p.Docs = []T{}
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
