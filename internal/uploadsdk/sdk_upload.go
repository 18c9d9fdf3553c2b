package uploadsdk

import (
	"bytes"
	"io"

	"github.com/figurevault/figurevault/internal/utils"
	"github.com/imroc/req/v3"
)

func contentTypeOf(f *File) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return utils.DetectContentType("", f.Data)
}

func fileUpload(f *File) req.FileUpload {
	name := f.Name
	if name == "" {
		name = f.Key
	}
	data := f.Data
	return req.FileUpload{
		ParamName: f.Key,
		FileName:  name,
		GetFileContent: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		FileSize:    int64(len(data)),
		ContentType: contentTypeOf(f),
	}
}
