// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// outputFlags are the --json and --pretty flags shared by every command that prints API data.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// pageFlags are the pagination flags for list commands.
func pageFlags(limit int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number to fetch",
			Value: 1,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of items per page",
			Value:   limit,
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	flags := []cli.Flag{}
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// setupCommand handles database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recently applied migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles sign-in state.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with a username or email and password, or import a token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("VIDX_PASSWORD"),
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Import an existing access token instead of signing in",
					},
					&cli.StringFlag{
						Name:  "curl",
						Usage: "Import the token from a cURL command copied from browser DevTools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a .sh file containing a cURL command",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check API health and the stored session",
				Action: r.AuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  outputFlags(),
				Action: r.AuthWhoami,
			},
		},
	}
}

// channelCommand shows a channel profile.
func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "channel",
		Usage:     "Show a channel profile",
		Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
		Flags:     outputFlags(),
		Action:    r.Channel,
	}
}

// videosCommand handles video listing and lookup.
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"v"},
		Usage:   "Browse videos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List videos, optionally filtered by a search query or owner",
				Flags: withFlags(outputFlags(), pageFlags(10), []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search query",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Only list videos owned by this username",
					},
					&cli.StringFlag{
						Name:  "sort-by",
						Usage: "Sort field (createdAt, views, duration)",
					},
					&cli.StringFlag{
						Name:  "sort-type",
						Usage: "Sort direction (asc or desc)",
					},
				}),
				Action: r.VideosList,
			},
			{
				Name:   "explore",
				Usage:  "List the explore feed",
				Flags:  withFlags(outputFlags(), pageFlags(12)),
				Action: r.VideosExplore,
			},
			{
				Name:      "get",
				Usage:     "Show a single video",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: withFlags(outputFlags(), []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the video file in a browser",
					},
				}),
				Action: r.VideosGet,
			},
			{
				Name:   "liked",
				Usage:  "List videos the signed-in user liked",
				Flags:  outputFlags(),
				Action: r.VideosLiked,
			},
			{
				Name:   "history",
				Usage:  "List the signed-in user's watch history",
				Flags:  outputFlags(),
				Action: r.VideosHistory,
			},
		},
	}
}

// commentsCommand handles comment threads.
func commentsCommand(r *Runner) *cli.Command {
	content := func() cli.Flag {
		return &cli.StringFlag{
			Name:     "message",
			Aliases:  []string{"m"},
			Usage:    "Comment text",
			Required: true,
		}
	}

	return &cli.Command{
		Name:  "comments",
		Usage: "Read and write comments",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List comments on a video, newest first",
				Arguments: []cli.Argument{&cli.StringArg{Name: "video-id"}},
				Flags:     withFlags(outputFlags(), pageFlags(10)),
				Action:    r.CommentsList,
			},
			{
				Name:      "add",
				Usage:     "Comment on a video",
				Arguments: []cli.Argument{&cli.StringArg{Name: "video-id"}},
				Flags:     withFlags(outputFlags(), []cli.Flag{content()}),
				Action:    r.CommentsAdd,
			},
			{
				Name:      "edit",
				Usage:     "Edit one of your comments",
				Arguments: []cli.Argument{&cli.StringArg{Name: "comment-id"}},
				Flags:     withFlags(outputFlags(), []cli.Flag{content()}),
				Action:    r.CommentsEdit,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Delete one of your comments",
				Arguments: []cli.Argument{&cli.StringArg{Name: "comment-id"}},
				Action:    r.CommentsDelete,
			},
		},
	}
}

// likeCommand toggles likes.
func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "like",
		Usage: "Like or unlike a video or comment",
		Commands: []*cli.Command{
			{
				Name:      "video",
				Usage:     "Toggle the like on a video",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     outputFlags(),
				Action:    r.LikeVideo,
			},
			{
				Name:      "comment",
				Usage:     "Toggle the like on a comment",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     outputFlags(),
				Action:    r.LikeComment,
			},
		},
	}
}

// subscribeCommand handles channel subscriptions.
func subscribeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "subscribe",
		Aliases: []string{"sub"},
		Usage:   "Manage channel subscriptions",
		Commands: []*cli.Command{
			{
				Name:      "toggle",
				Usage:     "Subscribe to or unsubscribe from a channel",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     outputFlags(),
				Action:    r.SubscribeToggle,
			},
			{
				Name:   "channels",
				Usage:  "List channels the signed-in user subscribes to",
				Flags:  outputFlags(),
				Action: r.SubscribeChannels,
			},
			{
				Name:      "subscribers",
				Usage:     "List a channel's subscribers",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     outputFlags(),
				Action:    r.SubscribeSubscribers,
			},
		},
	}
}

// searchCommand suggests video titles.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Suggest video titles from the API and the local cache",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags:     outputFlags(),
		Action:    r.Search,
	}
}

// apiCommand handles direct API calls and the state dump.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the video API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response envelope",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Full account state dump (profile, history, likes, subscriptions, explore)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

// exportCommand exports channels in bulk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the uploads of one or more channels",
		ArgsUsage: "<username> [username...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown, txt)",
				Value:   tasks.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: vidx_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second shared by all workers",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Videos requested per page",
				Value: 50,
			},
		},
		Action: r.Export,
	}
}

// cacheCommand inspects the local video cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local video cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached videos",
				Flags: withFlags(outputFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Only list videos owned by this username",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Only list videos whose title contains this text",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of videos to list",
					},
				}),
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached video",
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive video browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/vidx-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// sandboxCommand serves the in-memory API.
func sandboxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Serve an in-memory copy of the video API for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from [server] config)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Path prefix the API is mounted under",
				Value: "/api/v1",
			},
			&cli.BoolFlag{
				Name:  "empty",
				Usage: "Start without seed data",
			},
		},
		Action: r.Sandbox,
	}
}
