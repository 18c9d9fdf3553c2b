// Package catalog folds batch upload results back into figure records.
package catalog

import (
	"fmt"
	"log/slog"

	"github.com/figurevault/figurevault/internal/coordinator"
	"github.com/figurevault/figurevault/internal/uploadsdk"
)

// LocalFile is an image that has not been uploaded yet.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Image is either a persisted URL or a pending LocalFile.
type Image struct {
	URL  string     `json:"url,omitempty"`
	File *LocalFile `json:"-"`
}

func (i Image) Pending() bool {
	return i.File != nil
}

type Figure struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Unresolved is an image that still holds its local file after a merge.
type Unresolved struct {
	Key    string
	Reason string
}

// ImageKey is the upload key of image j of figure i.
func ImageKey(figure, image int) string {
	return fmt.Sprintf("file-%d-%d", figure, image)
}

// PendingUploads collects every local-file image as an upload item keyed by
// ImageKey.
func PendingUploads(figures []Figure) []*coordinator.Item {
	var items []*coordinator.Item
	for i, fig := range figures {
		for j, img := range fig.Images {
			if !img.Pending() {
				continue
			}
			items = append(items, &coordinator.Item{
				Key:         ImageKey(i, j),
				Name:        img.File.Name,
				ContentType: img.File.ContentType,
				Data:        img.File.Data,
			})
		}
	}
	return items
}

// MergeUploads returns a copy of figures where every pending image with a
// successful result now carries its URL. Images without one keep their local
// file and are reported as Unresolved. The input is never modified.
func MergeUploads(figures []Figure, resp *uploadsdk.BatchResponse) ([]Figure, []Unresolved) {
	uploaded := make(map[string]string)
	failures := make(map[string]string)
	if resp != nil {
		for _, r := range resp.Results {
			if r == nil {
				continue
			}
			if r.Success {
				uploaded[r.Key] = r.URL
			} else {
				failures[r.Key] = r.Error
			}
		}
	}

	var unresolved []Unresolved
	merged := make([]Figure, len(figures))
	for i, fig := range figures {
		merged[i] = Figure{Name: fig.Name}
		if fig.Images == nil {
			continue
		}

		merged[i].Images = make([]Image, len(fig.Images))
		for j, img := range fig.Images {
			merged[i].Images[j] = img
			if !img.Pending() {
				continue
			}

			key := ImageKey(i, j)
			if url, ok := uploaded[key]; ok {
				merged[i].Images[j] = Image{URL: url}
				continue
			}

			reason, ok := failures[key]
			if !ok {
				reason = "no upload result"
			}
			unresolved = append(unresolved, Unresolved{Key: key, Reason: reason})
			slog.Warn("image not uploaded", "figure", fig.Name, "key", key, "reason", reason)
		}
	}

	return merged, unresolved
}
