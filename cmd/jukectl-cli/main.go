// Command jukectl-cli is the CLI remote for a running jukectl-server: a
// thin cobra-based wrapper over the HTTP Surface (C8), grounded on
// original_source/cli/src/main.rs's clap Subcommand tree (status, tag,
// untag, skip, playback, queue head/tail) and its fatal JUKECTL_HOST check.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dancemore/jukectl/cmd/jukectl-cli/internal/ui"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// host is resolved once, fatally, in root's PersistentPreRun.
var host string

func main() {
	root := &cobra.Command{
		Use:   "jukectl-cli",
		Short: "Remote control for a jukectl daemon",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Banner()
			h, ok := os.LookupEnv("JUKECTL_HOST")
			if !ok {
				fmt.Fprintln(os.Stderr, "Error: JUKECTL_HOST environment variable is not set.")
				os.Exit(1)
			}
			host = strings.TrimSuffix(h, "/")
		},
	}

	root.AddCommand(
		statusCmd(),
		tagCmd(),
		untagCmd(),
		skipCmd(),
		playbackCmd(),
		queueCmd(),
	)

	if err := root.Execute(); err != nil {
		ui.Log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current tag filter, album mode, and cache stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := getJSON("/tags")
			if err != nil {
				return err
			}
			stats, err := getJSON("/cache-stats")
			if err != nil {
				return err
			}
			printJSON("tags", tags)
			printJSON("cache", stats)
			return nil
		},
	}
}

// tagCmd and untagCmd tag/untag the currently playing song, grounded on
// original_source/cli/src/main.rs's perform_tagging (POST /song/tags),
// distinct from playbackCmd which replaces the active filter wholesale.
func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <name>",
		Short: "Add the current song to the given tag's playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"add": []string{args[0]}}
			out, err := postJSON("/song/tags", body)
			if err != nil {
				return err
			}
			printJSON("song/tags", out)
			return nil
		},
	}
}

func untagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <name>",
		Short: "Remove the current song from the given tag's playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"remove": []string{args[0]}}
			out, err := postJSON("/song/tags", body)
			if err != nil {
				return err
			}
			printJSON("song/tags", out)
			return nil
		},
	}
}

func skipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Skip the currently playing track",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := postJSON("/skip", nil)
			if err != nil {
				return err
			}
			printJSON("skip", out)
			return nil
		},
	}
}

// playbackCmd sets the active tag filter wholesale, comma-splitting each
// argument the way original_source/cli/src/models/tags_data.rs does.
func playbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playback <tags> [not_tags]",
		Short: "Replace the any-list (and optionally the not-list)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"any": splitTags(args[0])}
			if len(args) == 2 {
				body["not"] = splitTags(args[1])
			}
			out, err := postJSON("/tags", body)
			if err != nil {
				return err
			}
			printJSON("tags", out)
			return nil
		},
	}
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the replenishment queue",
	}
	cmd.AddCommand(queueSideCmd("head"), queueSideCmd("tail"))
	return cmd
}

func queueSideCmd(side string) *cobra.Command {
	return &cobra.Command{
		Use:   side + " <N>",
		Short: fmt.Sprintf("Show the %s N songs of the replenishment queue", side),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 3
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid count %q: %w", args[0], err)
				}
				count = n
			}
			out, err := getJSON(fmt.Sprintf("/queue?count=%d", count))
			if err != nil {
				return err
			}
			m, ok := out.(map[string]any)
			if ok {
				printJSON(side, m[side])
				return nil
			}
			printJSON("queue", out)
			return nil
		},
	}
}

func getJSON(path string) (any, error) {
	resp, err := httpClient.Get(host + path)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body)
}

func postJSON(path string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(b))
	}
	resp, err := httpClient.Post(host+path, "application/json", reader)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body)
}

func decodeBody(r io.Reader) (any, error) {
	var out any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

func printJSON(label string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		ui.Log.WithError(err).Error("encoding output")
		return
	}
	fmt.Printf("%s:\n%s\n", label, b)
}
