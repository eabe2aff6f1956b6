package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	th "github.com/desertthunder/vidx/internal/testing"
)

func sampleExport() *models.ChannelExport {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.ChannelExport{
		Channel: models.Channel{
			ID:               "ch1",
			Username:         "alice",
			FullName:         "Alice Smith",
			SubscribersCount: 12500,
		},
		Videos: []models.Video{
			{
				ID:          "v1",
				Title:       "Intro to Go",
				Duration:    754.4,
				Views:       1234,
				LikesCount:  12,
				IsPublished: true,
				Owner:       models.Owner{ID: "ch1", Username: "alice"},
				CreatedAt:   created,
			},
			{
				ID:          "v2",
				Title:       "Concurrency, Patterns",
				Duration:    3725,
				Views:       48200,
				IsPublished: false,
				Owner:       models.Owner{ID: "ch1", Username: "alice"},
				CreatedAt:   created,
			},
		},
		ExportedAt: created,
	}
}

func TestHumanized(t *testing.T) {
	t.Run("Views", func(t *testing.T) {
		tests := []struct {
			in   int64
			want string
		}{
			{0, "0 views"},
			{1, "1 view"},
			{1234, "1,234 views"},
			{12345, "12.3k views"},
			{2_000_000, "2M views"},
		}
		for _, tt := range tests {
			if got := Views(tt.in); got != tt.want {
				t.Errorf("Views(%d) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})

	t.Run("Age", func(t *testing.T) {
		if got := Age(time.Time{}); got != "unknown" {
			t.Errorf("expected unknown, got %q", got)
		}
		if got := Age(time.Now().Add(-3 * 24 * time.Hour)); got != "3 days ago" {
			t.Errorf("expected 3 days ago, got %q", got)
		}
	})

	t.Run("Duration", func(t *testing.T) {
		if got := Duration(models.Video{Duration: 754.4}); got != "12:34" {
			t.Errorf("expected 12:34, got %q", got)
		}
		if got := Duration(models.Video{Duration: 3725}); got != "1:02:05" {
			t.Errorf("expected 1:02:05, got %q", got)
		}
	})
}

func TestExporters(t *testing.T) {
	export := sampleExport()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Owner,Duration,Views,Likes,Published,Created\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "v1,Intro to Go,alice,12:34,1234,12,true,2024-03-01T10:00:00Z") {
			t.Errorf("CSV missing v1 row, got: %s", output)
		}
		if !strings.Contains(output, `"Concurrency, Patterns"`) {
			t.Errorf("CSV should quote titles containing commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Alice Smith (@alice)",
			"**Subscribers**: 12,500",
			"**Videos**: 2",
			"**Total views**: 49,434",
			"1. Intro to Go [12:34] · 1,234 views",
			"2. Concurrency, Patterns [1:02:05] · 48.2k views · Unpublished",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "![Avatar]") {
			t.Error("Markdown should omit avatar when none is set")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Channel: Alice Smith (@alice)") {
			t.Errorf("text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. Intro to Go (12:34)") {
			t.Errorf("text missing video line, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"username": "alice"`) {
			t.Errorf("JSON missing channel username")
		}
		if !strings.Contains(output, `"_id": "v1"`) {
			t.Errorf("JSON missing video ID")
		}
	})

	t.Run("Tables", func(t *testing.T) {
		table := VideoTable(export.Videos)
		if !strings.Contains(table, " 1. Intro to Go") || !strings.Contains(table, "id: v2") {
			t.Errorf("unexpected video table:\n%s", table)
		}
		if VideoTable(nil) != "No videos found.\n" {
			t.Error("expected empty message for no videos")
		}

		comments := CommentTable([]models.Comment{{ID: "c1", Content: "Nice", LikesCount: 1, Owner: models.Owner{Username: "bob"}}})
		if !strings.Contains(comments, "@bob") || !strings.Contains(comments, "1 like") {
			t.Errorf("unexpected comment table:\n%s", comments)
		}
	})
}

func TestWriters(t *testing.T) {
	export := sampleExport()

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			res, err := WriteCSVExport(export, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if res.VideosFile != "alice_videos.csv" || res.MetadataFile != "alice_metadata.json" {
				t.Errorf("unexpected files: %+v", res)
			}
			th.AssertFileExists(t, res.VideosFile)
			if !strings.Contains(th.MustReadFile(t, res.MetadataFile), `"subscribersCount": 12500`) {
				t.Error("metadata missing subscriber count")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "custom")
			res, err := WriteCSVExport(export, base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, base+"_videos.csv")
			th.AssertFileExists(t, res.MetadataFile)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			if _, err := WriteCSVExport(export, filepath.Join(t.TempDir(), "missing", "x")); err == nil {
				t.Error("expected error for missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "alice")
		path, err := WriteMarkdownExport(export, dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		th.AssertDirExists(t, dir)
		if path != filepath.Join(dir, "README.md") {
			t.Errorf("unexpected path %s", path)
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteTextExport(export, "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if path != "alice_videos.txt" {
			t.Errorf("Expected 'alice_videos.txt', got '%s'", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.json")
		got, err := WriteJSONExport(export, path)
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if !strings.Contains(th.MustReadFile(t, path), `"Intro to Go"`) {
			t.Error("JSON missing video title")
		}
	})

	t.Run("WriteBulkExportManifest", func(t *testing.T) {
		result := &models.BulkExportResult{
			TotalChannels:     2,
			SuccessfulExports: 1,
			FailedExports:     1,
			OutputDirectory:   "exports",
			Results: []models.ChannelExportResult{
				{Username: "alice", ChannelID: "ch1", VideoCount: 2, Success: true, Files: []string{"alice.json"}},
				{Username: "ghost", Success: false, Error: errors.New("channel not found")},
			},
		}

		path := filepath.Join(t.TempDir(), "export_manifest.json")
		if err := WriteBulkExportManifest(result, "json", path); err != nil {
			t.Fatalf("WriteBulkExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{
			`"format": "json"`,
			`"total_channels": 2`,
			`"successful_exports": 1`,
			`"failed_exports": 1`,
			`"status": "success"`,
			`"status": "failed"`,
			`"error": "channel not found"`,
		} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
	})
}
