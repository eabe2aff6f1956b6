package tasks

import (
	"fmt"

	"github.com/desertthunder/vidx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchHealth Phase = iota
	FetchUser
	FetchHistory
	FetchLiked
	FetchChannels
	FetchExplore
	ResolveChannel
	ExportChannel
)

func (p Phase) String() string {
	switch p {
	case FetchHealth:
		return "fetch_health"
	case FetchUser:
		return "fetch_user"
	case FetchHistory:
		return "fetch_history"
	case FetchLiked:
		return "fetch_liked"
	case FetchChannels:
		return "fetch_channels"
	case FetchExplore:
		return "fetch_explore"
	case ResolveChannel:
		return "resolve_channel"
	case ExportChannel:
		return "export_channel"
	default:
		return ""
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func resolvingChannelsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannel,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d channel(s)...", total),
	}
}

func exportingChannelUpdate(step, total int, ch models.Channel) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportChannel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: @%s...", step, total, ch.Username),
		Data:    ch,
	}
}

func exportCompletedUpdate(step, total int, res models.ChannelExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportChannel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ @%s (%d videos, %d files)", step, total, res.Username, res.VideoCount, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res models.ChannelExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportChannel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ @%s: %v", step, total, res.Username, res.Error),
		Data:    res,
	}
}
