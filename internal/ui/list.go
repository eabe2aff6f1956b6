package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
)

var (
	_ list.Item = videoItem{}
	_ list.Item = suggestionItem("")
)

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	v := i.video
	return fmt.Sprintf("@%s • %s • %s • %s", v.Owner.Username, formatter.Duration(v), formatter.Views(v.Views), formatter.Age(v.CreatedAt))
}

// suggestionItem is a search completion.
type suggestionItem string

func (i suggestionItem) FilterValue() string { return string(i) }
func (i suggestionItem) Title() string       { return string(i) }
func (i suggestionItem) Description() string { return "" }

func videoItems(videos []models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
