package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/figurevault/figurevault/internal/coordinator"
	"github.com/figurevault/figurevault/internal/uploadsdk"
	"github.com/figurevault/figurevault/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errUploadsFailed = errors.New("some uploads failed")

func init() {
	rootCmd.AddCommand(newUploadCmd())
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [flags] FILE...",
		Short: "Upload files to a bucket in one batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadUploadConfig(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			items, err := readItems(args)
			if err != nil {
				return err
			}

			progress := coordinator.NewProgress(func(key string, status coordinator.Status) {
				slog.Debug("progress", "key", key, "status", status)
			})
			resp, err := runBatch(cmd, v, items, progress)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(buildRows(items, resp, progress)))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), red.Render("upload failed: "+err.Error()))
				return err
			}

			counts := progress.Counts()
			summary := fmt.Sprintf("%d uploaded, %d failed", counts[coordinator.StatusDone], counts[coordinator.StatusFailed])
			if counts[coordinator.StatusFailed] > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), red.Render(summary))
				return errUploadsFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), green.Render(summary))
			return nil
		},
	}

	addUploadFlags(cmd)
	return cmd
}

func addUploadFlags(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("server", "s", defaultServerURL, "FigureVault server URL")
	cmd.Flags().StringP("bucket", "b", "", "Destination bucket")
	cmd.Flags().BoolP("direct", "d", false, "Upload straight to storage with signed URLs")
	cmd.Flags().IntP("concurrency", "n", 0, "Max parallel direct uploads (0 = unbounded)")
	cmd.Flags().Duration("timeout", 0, "Per-request timeout (0 = client default)")
}

// runBatch sends items through the coordinator using the mode picked by --direct.
func runBatch(cmd *cobra.Command, v *viper.Viper, items []*coordinator.Item, progress *coordinator.Progress) (*uploadsdk.BatchResponse, error) {
	client, err := uploadsdk.New(v.GetString("server_url"), uploadsdk.WithTimeout(v.GetDuration("timeout")))
	if err != nil {
		return nil, err
	}

	coord := coordinator.New(client, v.GetInt("concurrency"))
	bucket := v.GetString("bucket")
	if v.GetBool("direct") {
		return coord.UploadDirect(cmd.Context(), bucket, items, progress)
	}
	return coord.Upload(cmd.Context(), bucket, items, progress)
}

func loadUploadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.BindPFlag("server_url", cmd.Flags().Lookup("server"))
	v.BindPFlag("bucket", cmd.Flags().Lookup("bucket"))
	v.BindPFlag("direct", cmd.Flags().Lookup("direct"))
	v.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	v.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if v.GetString("bucket") == "" {
		return nil, fmt.Errorf("bucket is required (--bucket or %s_BUCKET)", envPrefix)
	}
	if !utils.IsValidURL(v.GetString("server_url")) {
		return nil, fmt.Errorf("invalid server url %q", v.GetString("server_url"))
	}
	if v.GetDuration("timeout") <= 0 {
		v.Set("timeout", uploadsdk.DefaultTimeout)
	}
	return v, nil
}

// readItems loads every path and keys it `file-<index>` in argument order.
func readItems(paths []string) ([]*coordinator.Item, error) {
	items := make([]*coordinator.Item, 0, len(paths))
	var total uint64
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		total += uint64(len(data))
		items = append(items, &coordinator.Item{
			Key:         fmt.Sprintf("file-%d", i),
			Name:        filepath.Base(path),
			ContentType: utils.DetectContentType("", data),
			Data:        data,
		})
	}
	slog.Debug("files loaded", "count", len(items), "size", humanize.Bytes(total))
	return items, nil
}

func buildRows(items []*coordinator.Item, resp *uploadsdk.BatchResponse, progress *coordinator.Progress) []resultRow {
	rows := make([]resultRow, len(items))
	for i, item := range items {
		status, ok := progress.Get(item.Key)
		if !ok {
			status = coordinator.StatusPending
		}

		detail := ""
		if res := resp.Lookup(item.Key); res != nil {
			if res.Success {
				detail = cyan.Render(res.URL)
			} else {
				detail = strings.TrimSpace(res.Error)
			}
		}
		rows[i] = resultRow{Key: item.Key, File: item.Name, Status: status, Detail: detail}
	}
	return rows
}
