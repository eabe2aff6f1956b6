package server

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const maxSuggestions = 10

func (s *Sandbox) healthcheck(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "OK"}, "OK")
}

// requireUser writes a 401 and returns false when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized request")
	}
	return id, ok
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Sandbox) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if creds.Username == "" && creds.Email == "" {
		writeError(w, http.StatusBadRequest, "username or email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var found *account
	for _, a := range s.accounts {
		if (creds.Username != "" && a.user.Username == strings.ToLower(creds.Username)) ||
			(creds.Email != "" && a.user.Email == strings.ToLower(creds.Email)) {
			found = a
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "User does not exist")
		return
	}
	if found.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Invalid user credentials")
		return
	}

	token := shared.GenerateID()
	s.tokens[token] = found.user.ID
	writeData(w, http.StatusOK, models.LoginResponse{
		User:         found.user,
		AccessToken:  token,
		RefreshToken: shared.GenerateID(),
	}, "User logged in successfully")
}

func (s *Sandbox) logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	s.RevokeTokens(userID)
	writeData(w, http.StatusOK, map[string]any{}, "User logged out")
}

func (s *Sandbox) currentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	writeData(w, http.StatusOK, s.accounts[userID].user, "Current user fetched successfully")
}

func (s *Sandbox) channelProfile(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserFrom(r.Context())
	username := strings.ToLower(r.PathValue("username"))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.user.Username == username {
			writeData(w, http.StatusOK, s.channel(a.user, viewer), "User channel fetched successfully")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Channel does not exist")
}

func (s *Sandbox) channel(u models.User, viewer string) models.Channel {
	c := models.Channel{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
		CoverImg: u.CoverImg,
	}
	for _, sub := range s.subscriptions {
		if sub.channelID == u.ID {
			c.SubscribersCount++
			if sub.subscriberID == viewer {
				c.IsSubscribed = true
			}
		}
		if sub.subscriberID == u.ID {
			c.ChannelsSubscribedTo++
		}
	}
	return c
}

func (s *Sandbox) watchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := []models.Video{}
	for _, id := range s.history[userID] {
		if v, ok := s.videos[id]; ok {
			videos = append(videos, s.view(v, userID))
		}
	}
	writeData(w, http.StatusOK, videos, "Watch history fetched successfully")
}

// view decorates a stored video with like state for viewer.
func (s *Sandbox) view(v *models.Video, viewer string) models.Video {
	out := *v
	out.LikesCount = len(s.likes[v.ID])
	out.IsLiked = s.likes[v.ID][viewer]
	return out
}

func (s *Sandbox) published(viewer string) []models.Video {
	videos := make([]models.Video, 0, len(s.videoOrder))
	for _, id := range s.videoOrder {
		v := s.videos[id]
		if v.IsPublished || v.Owner.ID == viewer {
			videos = append(videos, s.view(v, viewer))
		}
	}
	return videos
}

func (s *Sandbox) listVideos(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserFrom(r.Context())
	q := r.URL.Query()
	query := strings.ToLower(strings.TrimSpace(q.Get("query")))
	ownerID := q.Get("userId")

	s.mu.RLock()
	videos := s.published(viewer)
	s.mu.RUnlock()

	videos = slices.DeleteFunc(videos, func(v models.Video) bool {
		if ownerID != "" && v.Owner.ID != ownerID {
			return true
		}
		if query == "" {
			return false
		}
		return !strings.Contains(strings.ToLower(v.Title), query) &&
			!strings.Contains(strings.ToLower(v.Description), query)
	})

	sortVideos(videos, q.Get("sortBy"), q.Get("sortType"))
	writeData(w, http.StatusOK, paginate(videos, queryInt(r, "page", 1), queryInt(r, "limit", 10)), "Videos fetched successfully")
}

// sortVideos orders by sortBy (createdAt, views, duration or title), newest first by default.
func sortVideos(videos []models.Video, sortBy, sortType string) {
	desc := sortType != "asc"
	slices.SortStableFunc(videos, func(a, b models.Video) int {
		var c int
		switch sortBy {
		case "views":
			c = cmp.Compare(a.Views, b.Views)
		case "duration":
			c = cmp.Compare(a.Duration, b.Duration)
		case "title":
			c = cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			return -c
		}
		return c
	})
}

// exploreVideos serves the public feed, newest first.
func (s *Sandbox) exploreVideos(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserFrom(r.Context())

	s.mu.RLock()
	videos := s.published("")
	for i := range videos {
		videos[i].IsLiked = s.likes[videos[i].ID][viewer]
	}
	s.mu.RUnlock()

	sortVideos(videos, "createdAt", "desc")
	writeData(w, http.StatusOK, paginate(videos, queryInt(r, "page", 1), queryInt(r, "limit", 12)), "Explore videos fetched successfully")
}

func (s *Sandbox) suggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	titles := []string{}
	if query == "" {
		writeData(w, http.StatusOK, titles, "Suggestions fetched successfully")
		return
	}

	s.mu.RLock()
	for _, v := range s.published("") {
		if strings.Contains(strings.ToLower(v.Title), query) {
			titles = append(titles, v.Title)
		}
		if len(titles) == maxSuggestions {
			break
		}
	}
	s.mu.RUnlock()

	writeData(w, http.StatusOK, titles, "Suggestions fetched successfully")
}

// getVideo counts a view and records the video in the viewer's history.
func (s *Sandbox) getVideo(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserFrom(r.Context())
	id := r.PathValue("videoId")

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok || (!v.IsPublished && v.Owner.ID != viewer) {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	v.Views++
	if viewer != "" {
		h := slices.DeleteFunc(s.history[viewer], func(seen string) bool { return seen == id })
		s.history[viewer] = append([]string{id}, h...)
	}
	writeData(w, http.StatusOK, s.view(v, viewer), "Video fetched successfully")
}

func (s *Sandbox) listComments(w http.ResponseWriter, r *http.Request) {
	viewer, _ := UserFrom(r.Context())
	videoID := r.PathValue("videoId")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.videos[videoID]; !ok {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	comments := []models.Comment{}
	for i := len(s.commentOrder) - 1; i >= 0; i-- {
		c := s.comments[s.commentOrder[i]]
		if c == nil || c.Video != videoID {
			continue
		}
		out := *c
		out.LikesCount = len(s.likes[c.ID])
		out.IsLiked = s.likes[c.ID][viewer]
		comments = append(comments, out)
	}
	writeData(w, http.StatusOK, paginate(comments, queryInt(r, "page", 1), queryInt(r, "limit", 10)), "Comments fetched successfully")
}

type contentBody struct {
	Content string `json:"content"`
}

func (s *Sandbox) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body contentBody
	if err := decodeBody(r, &body); err != nil || strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "Comment content is required")
		return
	}

	videoID := r.PathValue("videoId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[videoID]; !ok {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	c := s.addComment(videoID, s.accounts[userID].user, strings.TrimSpace(body.Content))
	writeData(w, http.StatusCreated, c, "Comment added successfully")
}

// ownedComment looks up a comment the caller may modify, writing the error response when it cannot.
func (s *Sandbox) ownedComment(w http.ResponseWriter, id, userID string) (*models.Comment, bool) {
	c, ok := s.comments[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return nil, false
	}
	if c.Owner.ID != userID {
		writeError(w, http.StatusForbidden, "You can only modify your own comments")
		return nil, false
	}
	return c, true
}

func (s *Sandbox) updateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body contentBody
	if err := decodeBody(r, &body); err != nil || strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "Comment content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ownedComment(w, r.PathValue("commentId"), userID)
	if !ok {
		return
	}
	c.Content = strings.TrimSpace(body.Content)
	out := *c
	out.LikesCount = len(s.likes[c.ID])
	out.IsLiked = s.likes[c.ID][userID]
	writeData(w, http.StatusOK, out, "Comment updated successfully")
}

func (s *Sandbox) deleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.ownedComment(w, r.PathValue("commentId"), userID)
	if !ok {
		return
	}
	delete(s.comments, c.ID)
	delete(s.likes, c.ID)
	s.commentOrder = slices.DeleteFunc(s.commentOrder, func(id string) bool { return id == c.ID })
	writeData(w, http.StatusOK, map[string]any{}, "Comment deleted successfully")
}

// toggleLike flips userID's like on target and returns the resulting status.
func (s *Sandbox) toggleLike(target, userID string) models.LikeStatus {
	likers := s.likes[target]
	if likers == nil {
		likers = make(map[string]bool)
		s.likes[target] = likers
	}
	if likers[userID] {
		delete(likers, userID)
	} else {
		likers[userID] = true
	}
	return models.LikeStatus{IsLiked: likers[userID], LikesCount: len(likers)}
}

func (s *Sandbox) toggleVideoLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("videoId")
	if _, ok := s.videos[id]; !ok {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	writeData(w, http.StatusOK, s.toggleLike(id, userID), "Like toggled successfully")
}

func (s *Sandbox) toggleCommentLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("commentId")
	if _, ok := s.comments[id]; !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	writeData(w, http.StatusOK, s.toggleLike(id, userID), "Like toggled successfully")
}

func (s *Sandbox) likedVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := []models.Video{}
	for _, id := range s.videoOrder {
		if s.likes[id][userID] {
			videos = append(videos, s.view(s.videos[id], userID))
		}
	}
	writeData(w, http.StatusOK, videos, "Liked videos fetched successfully")
}

func (s *Sandbox) toggleSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	channelID := r.PathValue("channelId")
	if channelID == userID {
		writeError(w, http.StatusBadRequest, "You cannot subscribe to your own channel")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[channelID]; !ok {
		writeError(w, http.StatusNotFound, "Channel does not exist")
		return
	}

	before := len(s.subscriptions)
	s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub subscription) bool {
		return sub.subscriberID == userID && sub.channelID == channelID
	})
	subscribed := len(s.subscriptions) == before
	if subscribed {
		s.subscriptions = append(s.subscriptions, subscription{
			id: shared.GenerateID(), subscriberID: userID, channelID: channelID, created: s.now(),
		})
	}

	status := models.SubscriptionStatus{IsSubscribed: subscribed}
	for _, sub := range s.subscriptions {
		if sub.channelID == channelID {
			status.SubscribersCount++
		}
	}
	writeData(w, http.StatusOK, status, "Subscription toggled successfully")
}

func (s *Sandbox) channelSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelId")

	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.accounts[channelID]
	if !ok {
		writeError(w, http.StatusNotFound, "Channel does not exist")
		return
	}

	subs := []models.Subscription{}
	for _, sub := range s.subscriptions {
		if sub.channelID != channelID {
			continue
		}
		subs = append(subs, models.Subscription{
			ID:         sub.id,
			Subscriber: ownerOf(s.accounts[sub.subscriberID].user),
			Channel:    ownerOf(channel.user),
			CreatedAt:  sub.created,
		})
	}
	writeData(w, http.StatusOK, subs, "Subscribers fetched successfully")
}

func (s *Sandbox) subscribedChannels(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := []models.Channel{}
	for _, sub := range s.subscriptions {
		if sub.subscriberID == userID {
			channels = append(channels, s.channel(s.accounts[sub.channelID].user, userID))
		}
	}
	writeData(w, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
