package models

// FileUpload is a file picked in the dashboard and not yet sent anywhere
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (f *FileUpload) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// UploadResponse is returned by POST /api/upload
type UploadResponse struct {
	URL string `json:"url"`
}
