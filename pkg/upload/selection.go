package upload

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a user-chosen local file held in memory until it is submitted.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileInfo describes a selected file without its contents.
type FileInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NewFile builds a File, resolving its content type from the declared value or,
// when that is empty or generic, by sniffing the data.
func NewFile(name, declared string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: detectContentType(declared, data),
		Data:        data,
	}
}

// ReadFile reads r fully into a File.
func ReadFile(name, declared string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return NewFile(name, declared, data), nil
}

// OpenFile loads a file from disk. The content type is always sniffed.
func OpenFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFile(filepath.Base(path), "", data), nil
}

// Size returns the file length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// Info returns the file's metadata.
func (f *File) Info() FileInfo {
	return FileInfo{
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size(),
	}
}

// PreviewURL returns the file as a data URI suitable for an <img> or <video> src.
func (f *File) PreviewURL() string {
	return "data:" + mediaType(f.ContentType) + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// Selection is what the user has chosen to submit: a file, a prompt, or both.
type Selection struct {
	File   *File
	Prompt string
}

// Empty reports whether the selection carries neither a file nor prompt text.
func (s Selection) Empty() bool {
	return s.File == nil && strings.TrimSpace(s.Prompt) == ""
}

func detectContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}

func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
