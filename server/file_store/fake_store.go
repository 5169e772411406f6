package file_store

import (
	"io"
	"io/ioutil"
	"strings"
)

// FakeFileStore keeps uploads in memory, used in handler tests.
type FakeFileStore struct {
	Uploaded map[string][]byte
	Deleted  []string
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{Uploaded: map[string][]byte{}}
}

func (f *FakeFileStore) Upload(body io.Reader, path string, fileName string) (string, error) {
	content, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := "https://fake.blob/" + strings.Trim(path, "/")
	f.Uploaded[url] = content
	return url, nil
}

func (f *FakeFileStore) Delete(url string) error {
	delete(f.Uploaded, url)
	f.Deleted = append(f.Deleted, url)
	return nil
}
