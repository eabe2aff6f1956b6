// package formatter renders video lists and channel exports as CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/dustin/go-humanize"
)

// Views renders a view count the way the UI shows it: "1,234 views" below 10k, "12.3k views" above.
func Views(n int64) string {
	unit := "views"
	if n == 1 {
		unit = "view"
	}
	if n < 10_000 {
		return fmt.Sprintf("%s %s", humanize.Comma(n), unit)
	}
	return fmt.Sprintf("%s %s", strings.ReplaceAll(humanize.SIWithDigits(float64(n), 1, ""), " ", ""), unit)
}

// Age renders t relative to now, e.g. "3 days ago". The zero time renders as "unknown".
func Age(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}

// Duration renders a video length as m:ss or h:mm:ss.
func Duration(v models.Video) string {
	return shared.FormatDuration(v.DurationSeconds())
}

// ExportToCSV converts a channel export to CSV with columns: ID, Title, Owner, Duration, Views, Likes, Published, Created
func ExportToCSV(export *models.ChannelExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Owner", "Duration", "Views", "Likes", "Published", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range export.Videos {
		record := []string{
			v.ID,
			v.Title,
			v.Owner.Username,
			Duration(v),
			strconv.FormatInt(v.Views, 10),
			strconv.Itoa(v.LikesCount),
			strconv.FormatBool(v.IsPublished),
			v.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a channel export to a Markdown document with a header and a numbered video list
func ExportToMarkdown(export *models.ChannelExport) ([]byte, error) {
	var buf bytes.Buffer
	ch := export.Channel

	fmt.Fprintf(&buf, "# %s (@%s)\n\n", channelTitle(ch), ch.Username)
	if ch.Avatar != "" {
		fmt.Fprintf(&buf, "![Avatar](%s)\n\n", ch.Avatar)
	}

	fmt.Fprintf(&buf, "**Subscribers**: %s\n", humanize.Comma(int64(ch.SubscribersCount)))
	fmt.Fprintf(&buf, "**Videos**: %d\n", len(export.Videos))
	fmt.Fprintf(&buf, "**Total views**: %s\n\n", humanize.Comma(export.TotalViews()))

	buf.WriteString("## Videos\n\n")
	for i, v := range export.Videos {
		fmt.Fprintf(&buf, "%d. %s [%s] · %s", i+1, v.Title, Duration(v), Views(v.Views))
		if !v.IsPublished {
			fmt.Fprintf(&buf, " · %s", shared.VisibilityString(false))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a channel export to plain text
func ExportToText(export *models.ChannelExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Channel: %s (@%s)\n", channelTitle(export.Channel), export.Channel.Username)
	fmt.Fprintf(&buf, "Videos: %d\n\n", len(export.Videos))

	for i, v := range export.Videos {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, v.Title, Duration(v))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a channel export to indented JSON
func ExportToJSON(export *models.ChannelExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ToMetadataJSON generates a JSON representation of the channel profile (without videos)
func ToMetadataJSON(ch models.Channel) ([]byte, error) {
	return shared.MarshalJSON(ch, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_videos.csv and {base}_metadata.json.
//
// The base path defaults to the channel's username.
func WriteCSVExport(export *models.ChannelExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Channel.Username
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Channel)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{VideosFile: videosFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes {dir}/README.md, creating dir if needed. The directory defaults to the channel's username.
func WriteMarkdownExport(export *models.ChannelExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = export.Channel.Username
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport writes a plain text export, defaulting to {username}_videos.txt.
func WriteTextExport(export *models.ChannelExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_videos.txt", export.Channel.Username)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes a JSON export, defaulting to {username}.json.
func WriteJSONExport(export *models.ChannelExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.json", export.Channel.Username)
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

type manifestEntry struct {
	Username   string   `json:"username"`
	ChannelID  string   `json:"channel_id,omitempty"`
	VideoCount int      `json:"video_count"`
	Status     string   `json:"status"`
	Files      []string `json:"files,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type manifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	OutputDirectory   string          `json:"output_directory,omitempty"`
	TotalChannels     int             `json:"total_channels"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Channels          []manifestEntry `json:"channels"`
}

// WriteBulkExportManifest writes a JSON summary of a bulk export to path.
func WriteBulkExportManifest(result *models.BulkExportResult, format, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		OutputDirectory:   result.OutputDirectory,
		TotalChannels:     result.TotalChannels,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Channels:          make([]manifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := manifestEntry{
			Username:   r.Username,
			ChannelID:  r.ChannelID,
			VideoCount: r.VideoCount,
			Status:     "success",
			Files:      r.Files,
		}
		if !r.Success {
			entry.Status = "failed"
		}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		}
		m.Channels = append(m.Channels, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// VideoTable renders videos as aligned plain-text rows for terminal output.
func VideoTable(videos []models.Video) string {
	if len(videos) == 0 {
		return "No videos found.\n"
	}

	var b strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, v.Title)
		fmt.Fprintf(&b, "    @%s · %s · %s · %s\n", v.Owner.Username, Duration(v), Views(v.Views), Age(v.CreatedAt))
		fmt.Fprintf(&b, "    id: %s\n", v.ID)
	}
	return b.String()
}

// CommentTable renders comments newest first, as returned by the API.
func CommentTable(comments []models.Comment) string {
	if len(comments) == 0 {
		return "No comments yet.\n"
	}

	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "@%s · %s · %s\n", c.Owner.Username, Age(c.CreatedAt), likes(c.LikesCount))
		fmt.Fprintf(&b, "  %s\n", c.Content)
		fmt.Fprintf(&b, "  id: %s\n", c.ID)
	}
	return b.String()
}

func likes(n int) string {
	if n == 1 {
		return "1 like"
	}
	return humanize.Comma(int64(n)) + " likes"
}

func channelTitle(ch models.Channel) string {
	if ch.FullName != "" {
		return ch.FullName
	}
	return ch.Username
}
