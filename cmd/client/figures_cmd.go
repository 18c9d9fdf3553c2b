package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/figurevault/figurevault/internal/catalog"
	"github.com/figurevault/figurevault/internal/coordinator"
	"github.com/figurevault/figurevault/internal/utils"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFiguresCmd())
}

// manifestFigure is one figure in a manifest file. Each image is either an
// already uploaded URL or a path relative to the manifest.
type manifestFigure struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

func newFiguresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "figures [flags] MANIFEST",
		Short: "Upload the local images of a figure manifest and rewrite them as URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadUploadConfig(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			manifestPath := args[0]
			figures, err := readManifest(manifestPath)
			if err != nil {
				return err
			}

			items := catalog.PendingUploads(figures)
			if len(items) == 0 {
				slog.Info("nothing to upload", "figures", len(figures))
				return writeManifest(cmd, figures, manifestPath)
			}

			progress := coordinator.NewProgress(nil)
			resp, err := runBatch(cmd, v, items, progress)
			fmt.Fprintln(cmd.ErrOrStderr(), renderTable(buildRows(items, resp, progress)))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), red.Render("upload failed: "+err.Error()))
				return err
			}

			merged, unresolved := catalog.MergeUploads(figures, resp)
			if err := writeManifest(cmd, merged, manifestPath); err != nil {
				return err
			}
			if len(unresolved) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), red.Render(fmt.Sprintf("%d images still local", len(unresolved))))
				return errUploadsFailed
			}
			return nil
		},
	}

	addUploadFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Write the merged manifest here instead of stdout")
	return cmd
}

// readManifest loads a manifest and reads every image that is not a URL.
func readManifest(path string) ([]catalog.Figure, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries []manifestFigure
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	figures := make([]catalog.Figure, len(entries))
	for i, entry := range entries {
		figures[i] = catalog.Figure{Name: entry.Name, Images: make([]catalog.Image, len(entry.Images))}
		for j, ref := range entry.Images {
			if utils.IsValidURL(ref) {
				figures[i].Images[j] = catalog.Image{URL: ref}
				continue
			}

			local := ref
			if strings.HasPrefix(ref, "~") {
				if local, err = utils.ResolvePath(ref); err != nil {
					return nil, err
				}
			} else if !filepath.IsAbs(ref) {
				local = filepath.Join(base, ref)
			}
			data, err := os.ReadFile(local)
			if err != nil {
				return nil, fmt.Errorf("figure %q: %w", entry.Name, err)
			}
			figures[i].Images[j] = catalog.Image{File: &catalog.LocalFile{
				Name:        filepath.Base(local),
				ContentType: utils.DetectContentType("", data),
				Data:        data,
			}}
		}
	}
	return figures, nil
}

// toManifest keeps the original path for images that are still local.
func toManifest(figures []catalog.Figure, original []manifestFigure) []manifestFigure {
	out := make([]manifestFigure, len(figures))
	for i, fig := range figures {
		out[i] = manifestFigure{Name: fig.Name, Images: make([]string, len(fig.Images))}
		for j, img := range fig.Images {
			if img.Pending() && i < len(original) && j < len(original[i].Images) {
				out[i].Images[j] = original[i].Images[j]
				continue
			}
			out[i].Images[j] = img.URL
		}
	}
	return out
}

func writeManifest(cmd *cobra.Command, figures []catalog.Figure, manifestPath string) error {
	var original []manifestFigure
	if raw, err := os.ReadFile(manifestPath); err == nil {
		json.Unmarshal(raw, &original)
	}

	data, err := json.MarshalIndent(toManifest(figures, original), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
