package models

import "time"

// ChannelExport is a channel profile with its uploaded videos, as written by the exporters.
type ChannelExport struct {
	Channel    Channel   `json:"channel"`
	Videos     []Video   `json:"videos"`
	ExportedAt time.Time `json:"exportedAt"`
}

// TotalViews sums the view counts of every exported video.
func (e ChannelExport) TotalViews() int64 {
	var total int64
	for _, v := range e.Videos {
		total += v.Views
	}
	return total
}

// ChannelExportResult is the outcome of exporting a single channel.
type ChannelExportResult struct {
	Username   string
	ChannelID  string
	VideoCount int
	Success    bool
	Files      []string
	Error      error
}

// BulkExportResult summarizes a multi-channel export.
type BulkExportResult struct {
	TotalChannels     int
	SuccessfulExports int
	FailedExports     int
	Results           []ChannelExportResult
	OutputDirectory   string
	ManifestPath      string
}
