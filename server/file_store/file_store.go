package file_store

import "io"

// Shared Func type for file stores
type CustomizeUploadedUrlType func(string) string

// UploadFileStore abstracts the external blob service. Upload streams the
// file body under the given logical path and returns the public url; Delete
// removes a previously uploaded blob by its public url.
type UploadFileStore interface {
	Upload(body io.Reader, path string, fileName string) (url string, err error)
	Delete(url string) error
}
