package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/state"
	"github.com/desertthunder/vidx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ExploreView ViewState = iota
	DetailView
	SearchView
	ComposeView
)

// Options tunes the TUI. Zero values use the package defaults.
type Options struct {
	PageSize int
	Debounce time.Duration
	ToastTTL time.Duration
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	client *services.Client
	engine *tasks.Engine
	logger *log.Logger
	view   ViewState
	width  int
	height int
	opts   Options

	query    string
	feed     *state.List[models.Video]
	feedList list.Model

	video     *models.Video
	channel   models.Channel
	detailErr error
	like      *state.Toggle
	subscribe *state.Toggle
	comments  *state.List[models.Comment]

	search      textinput.Model
	suggestions list.Model
	picked      bool // a suggestion was chosen with the arrow keys
	debounce    *state.Debouncer
	compose     textinput.Model

	toasts  *state.Toasts
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies. logger may be nil.
func NewModel(ctx context.Context, client *services.Client, engine *tasks.Engine, logger *log.Logger, opts Options) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = 12
	}

	search := textinput.New()
	search.Placeholder = "Search videos"
	search.CharLimit = 100

	compose := textinput.New()
	compose.Placeholder = "Add a comment"
	compose.CharLimit = 500

	suggestions := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	suggestions.SetShowHelp(false)
	suggestions.SetShowStatusBar(false)
	suggestions.SetFilteringEnabled(false)
	suggestions.Title = "Suggestions"

	m := &Model{
		ctx:         ctx,
		client:      client,
		engine:      engine,
		logger:      logger,
		view:        ExploreView,
		opts:        opts,
		search:      search,
		suggestions: suggestions,
		debounce:    state.NewDebouncer(opts.Debounce),
		compose:     compose,
		toasts:      state.NewToasts(opts.ToastTTL),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		keys:        newKeyMap(),
	}

	m.feedList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.feedList.SetShowHelp(false)
	m.feedList.SetFilteringEnabled(false)
	m.resetFeed("")
	return m
}

// Init starts the spinner and loads the explore feed.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchFeed(false))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.feedList.SetSize(msg.Width-4, msg.Height-8)
		m.suggestions.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case ExploreView:
			return m.handleExploreKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case ComposeView:
			return m.handleComposeKeys(msg)
		}

	case feedFetchedMsg:
		if msg.feed != m.feed || errors.Is(msg.err, shared.ErrSuperseded) {
			return m, nil
		}
		if msg.err != nil {
			m.debugf("feed fetch failed: %v", msg.err)
		}
		return m, m.feedList.SetItems(videoItems(m.feed.Items()))

	case videoFetchedMsg:
		if msg.err != nil {
			m.detailErr = msg.err
			return m, nil
		}
		m.video = &msg.video
		m.channel = msg.channel
		m.like = state.NewVideoLikeToggle(m.client, m.toasts, msg.video)
		m.subscribe = state.NewSubscribeToggle(m.client, m.toasts, msg.channel)
		return m, nil

	case commentsFetchedMsg:
		if msg.comments == m.comments && msg.err != nil && !errors.Is(msg.err, shared.ErrSuperseded) {
			m.debugf("comments fetch failed: %v", msg.err)
		}
		return m, nil

	case commentAddedMsg:
		if msg.err != nil {
			m.toasts.Notify(state.LevelError, msg.err.Error())
			return m, m.toastTick()
		}
		if m.comments != nil && msg.comment.Video == m.videoID() {
			m.comments.Prepend(msg.comment)
		}
		m.toasts.Notify(state.LevelSuccess, "Comment added")
		return m, m.toastTick()

	case toggledMsg:
		if msg.err == nil && msg.toggle == m.like {
			m.toasts.Notify(state.LevelSuccess, likeMessage(msg.toggle.Status()))
		}
		return m, m.toastTick()

	case suggestTickMsg:
		if !m.debounce.Settled(msg.tag) {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.tag, m.search.Value())

	case suggestionsMsg:
		if !m.debounce.Settled(msg.tag) {
			return m, nil
		}
		if msg.err != nil {
			m.debugf("suggestions failed: %v", msg.err)
		}
		items := make([]list.Item, len(msg.titles))
		for i, title := range msg.titles {
			items[i] = suggestionItem(title)
		}
		return m, m.suggestions.SetItems(items)

	case toastTickMsg:
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ExploreView:
		body = m.renderExplore()
	case DetailView:
		body = m.renderDetail()
	case SearchView:
		body = m.renderSearch()
	case ComposeView:
		body = m.renderCompose()
	}

	if status := m.renderToasts(); status != "" {
		body = fmt.Sprintf("%s\n%s", body, status)
	}
	return body
}

func (m *Model) handleExploreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.feedList.SelectedItem().(videoItem); ok {
			return m, m.openVideo(item.video.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.search.SetValue(m.query)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchFeed(false)
	case key.Matches(msg, m.keys.more):
		return m, m.fetchFeed(true)
	case key.Matches(msg, m.keys.back):
		if m.query != "" {
			m.resetFeed("")
			return m, tea.Batch(m.feedList.SetItems(nil), m.fetchFeed(false))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.feedList, cmd = m.feedList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeVideo()
		return m, nil
	case key.Matches(msg, m.keys.like):
		return m, m.runToggle(m.like)
	case key.Matches(msg, m.keys.subscribe):
		return m, m.runToggle(m.subscribe)
	case key.Matches(msg, m.keys.comment):
		if m.video == nil {
			return m, nil
		}
		if !m.client.Auth.Authenticated() {
			m.toasts.Notify(state.LevelWarn, state.LoginPrompt)
			return m, m.toastTick()
		}
		m.view = ComposeView
		m.compose.Reset()
		return m, m.compose.Focus()
	case key.Matches(msg, m.keys.refresh):
		if id := m.videoID(); id != "" {
			return m, m.openVideo(id)
		}
	case key.Matches(msg, m.keys.more):
		return m, m.fetchComments(true)
	case key.Matches(msg, m.keys.open):
		if m.video != nil {
			if err := shared.OpenBrowser(m.video.VideoFile); err != nil {
				m.toasts.Notify(state.LevelError, err.Error())
				return m, m.toastTick()
			}
		}
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.Blur()
		m.view = ExploreView
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.search.Value())
		if item, ok := m.suggestions.SelectedItem().(suggestionItem); ok && m.picked {
			query = string(item)
		}
		m.search.Blur()
		m.view = ExploreView
		m.resetFeed(query)
		return m, tea.Batch(m.feedList.SetItems(nil), m.fetchFeed(false))
	case "up", "down":
		m.picked = true
		var cmd tea.Cmd
		m.suggestions, cmd = m.suggestions.Update(msg)
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.picked = false
	tag := m.debounce.Mark()
	tick := tea.Tick(m.debounce.Delay(), func(time.Time) tea.Msg { return suggestTickMsg{tag: tag} })
	return m, tea.Batch(cmd, tick)
}

func (m *Model) handleComposeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.compose.Blur()
		m.view = DetailView
		return m, nil
	case "enter":
		content := m.compose.Value()
		if strings.TrimSpace(content) == "" {
			m.toasts.Notify(state.LevelWarn, "Comment cannot be empty")
			return m, m.toastTick()
		}
		m.compose.Blur()
		m.compose.Reset()
		m.view = DetailView
		return m, m.addComment(m.videoID(), content)
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return m, cmd
}

// resetFeed replaces the feed list, cancelling any fetch for the old one.
func (m *Model) resetFeed(query string) {
	if m.feed != nil {
		m.feed.Cancel()
	}
	m.query = query

	videos := m.client.Videos
	limit := m.opts.PageSize
	if query == "" {
		m.feedList.Title = "Explore"
		m.feed = state.NewList(state.PageFetcher(func(ctx context.Context, page int) services.Result[models.Page[models.Video]] {
			return videos.Explore(ctx, page, limit)
		}))
		return
	}

	m.feedList.Title = fmt.Sprintf("Results for %q", query)
	m.feed = state.NewList(state.PageFetcher(func(ctx context.Context, page int) services.Result[models.Page[models.Video]] {
		return videos.List(ctx, services.VideoQuery{Query: query, Page: page, Limit: limit})
	}))
}

func (m *Model) fetchFeed(more bool) tea.Cmd {
	feed := m.feed
	ctx := m.ctx
	return func() tea.Msg {
		var err error
		if more {
			err = feed.FetchMore(ctx)
		} else {
			err = feed.Fetch(ctx)
		}
		return feedFetchedMsg{feed: feed, err: err}
	}
}

// openVideo switches to the detail view and loads the video, its channel and its comments.
func (m *Model) openVideo(id string) tea.Cmd {
	m.view = DetailView
	m.detailErr = nil
	if m.videoID() != id {
		m.video = nil
		m.like = nil
		m.subscribe = nil
	}

	if m.comments != nil {
		m.comments.Cancel()
	}
	comments := m.client.Comments
	limit := m.opts.PageSize
	m.comments = state.NewList(state.PageFetcher(func(ctx context.Context, page int) services.Result[models.Page[models.Comment]] {
		return comments.List(ctx, id, page, limit)
	}))

	client := m.client
	ctx := m.ctx
	fetchVideo := func() tea.Msg {
		video, err := client.Videos.Get(ctx, id).Unwrap()
		if err != nil {
			return videoFetchedMsg{err: err}
		}
		channel, err := client.Auth.Channel(ctx, video.Owner.Username).Unwrap()
		if err != nil {
			channel = models.Channel{ID: video.Owner.ID, Username: video.Owner.Username, FullName: video.Owner.FullName}
		}
		return videoFetchedMsg{video: video, channel: channel}
	}
	return tea.Batch(fetchVideo, m.fetchComments(false))
}

func (m *Model) closeVideo() {
	if m.comments != nil {
		m.comments.Cancel()
	}
	m.view = ExploreView
	m.video = nil
	m.like = nil
	m.subscribe = nil
	m.comments = nil
	m.detailErr = nil
}

func (m *Model) videoID() string {
	if m.video == nil {
		return ""
	}
	return m.video.ID
}

func (m *Model) fetchComments(more bool) tea.Cmd {
	comments := m.comments
	if comments == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		var err error
		if more {
			err = comments.FetchMore(ctx)
		} else {
			err = comments.Fetch(ctx)
		}
		return commentsFetchedMsg{comments: comments, err: err}
	}
}

func (m *Model) addComment(videoID, content string) tea.Cmd {
	svc := m.client.Comments
	ctx := m.ctx
	return func() tea.Msg {
		c, err := svc.Add(ctx, videoID, content).Unwrap()
		return commentAddedMsg{comment: c, err: err}
	}
}

// runToggle shows the optimistic state immediately and resolves the request in a command.
func (m *Model) runToggle(t *state.Toggle) tea.Cmd {
	if t == nil {
		return nil
	}
	if err := t.Begin(); err != nil {
		if errors.Is(err, shared.ErrBusy) {
			return nil
		}
		return m.toastTick()
	}

	ctx := m.ctx
	return func() tea.Msg {
		_, err := t.Resolve(ctx)
		return toggledMsg{toggle: t, err: err}
	}
}

func (m *Model) fetchSuggestions(tag uint64, query string) tea.Cmd {
	engine := m.engine
	ctx := m.ctx
	return func() tea.Msg {
		if engine == nil {
			return suggestionsMsg{tag: tag}
		}
		titles, err := engine.Suggest(ctx, query)
		return suggestionsMsg{tag: tag, titles: titles, err: err}
	}
}

func (m *Model) toastTick() tea.Cmd {
	return tea.Tick(m.toasts.TTL(), func(time.Time) tea.Msg { return toastTickMsg{} })
}

func (m *Model) debugf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Debugf(format, args...)
	}
}

func (m *Model) renderExplore() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.refresh, m.keys.more, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	switch m.feed.Phase() {
	case state.PhaseIdle, state.PhaseLoading:
		if len(m.feedList.Items()) == 0 {
			return fmt.Sprintf("%s\n\n%s Loading videos...\n\n%s", styles.title.Render(m.feedList.Title), m.spinner.View(), helpView)
		}
	case state.PhaseError:
		return fmt.Sprintf("%s\n\n%s\n\n%s",
			styles.title.Render(m.feedList.Title),
			styles.err.Render(fmt.Sprintf("Could not load videos: %v", m.feed.Err())),
			m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.quit}),
		)
	case state.PhaseEmpty:
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render(m.feedList.Title), styles.help.Render("No videos found."), helpView)
	}

	footer := helpView
	if m.feed.HasMore() {
		footer = fmt.Sprintf("%s\n%s", styles.help.Render("More videos available (n)"), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.feedList.View(), footer)
}

func (m *Model) renderDetail() string {
	if m.detailErr != nil {
		return styles.err.Render(fmt.Sprintf("Could not load video: %v\n\nPress r to retry, esc to go back", m.detailErr))
	}
	if m.video == nil {
		return fmt.Sprintf("%s Loading video...", m.spinner.View())
	}

	v := m.video
	var b strings.Builder
	b.WriteString(styles.title.Render(v.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s • %s • %s\n", formatter.Duration(*v), formatter.Views(v.Views), formatter.Age(v.CreatedAt))

	if m.like != nil {
		like := m.like.Status()
		label := fmt.Sprintf("♡ %d", like.Count)
		if like.Active {
			label = styles.active.Render(fmt.Sprintf("♥ %d", like.Count))
		}
		if m.like.Loading() {
			label += " " + m.spinner.View()
		}
		b.WriteString(label)
	}

	if m.subscribe != nil {
		sub := m.subscribe.Status()
		label := fmt.Sprintf("Subscribe (%d)", sub.Count)
		if sub.Active {
			label = styles.active.Render(fmt.Sprintf("Subscribed (%d)", sub.Count))
		}
		if m.subscribe.Loading() {
			label += " " + m.spinner.View()
		}
		fmt.Fprintf(&b, "   @%s  %s", m.channel.Username, label)
	}
	b.WriteString("\n\n")

	if v.Description != "" {
		b.WriteString(v.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderComments())

	helpKeys := []key.Binding{m.keys.like, m.keys.subscribe, m.keys.comment, m.keys.more, m.keys.open, m.keys.back}
	fmt.Fprintf(&b, "\n%s", m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderComments() string {
	if m.comments == nil {
		return ""
	}

	header := styles.warn.Render("Comments")
	switch m.comments.Phase() {
	case state.PhaseIdle, state.PhaseLoading:
		if m.comments.Len() == 0 {
			return fmt.Sprintf("%s\n%s Loading comments...\n", header, m.spinner.View())
		}
	case state.PhaseError:
		return fmt.Sprintf("%s\n%s\n", header, styles.err.Render(fmt.Sprintf("Could not load comments: %v", m.comments.Err())))
	case state.PhaseEmpty:
		return fmt.Sprintf("%s\n%s\n", header, styles.help.Render("No comments yet. Press c to add one."))
	}

	return fmt.Sprintf("%s\n%s", header, formatter.CommentTable(m.comments.Items()))
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search")
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		m.keys.back,
	})

	body := m.search.View()
	if len(m.suggestions.Items()) > 0 {
		body = fmt.Sprintf("%s\n\n%s", body, m.suggestions.View())
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderCompose() string {
	title := "Comment"
	if m.video != nil {
		title = fmt.Sprintf("Comment on %q", m.video.Title)
	}
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "post")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(title), m.compose.View(), helpView)
}

func (m *Model) renderToasts() string {
	active := m.toasts.Active(time.Now())
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, len(active))
	for i, t := range active {
		lines[i] = styles.toast(t.Level).Render(t.Message)
	}
	return strings.Join(lines, "\n")
}

func likeMessage(s state.Status) string {
	if s.Active {
		return "Liked"
	}
	return "Like removed"
}
