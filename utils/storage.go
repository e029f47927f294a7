package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

const exportBucket = "invite_exports"

// UploadExport pushes a generated export file to the supabase bucket and
// returns its public URL.
func UploadExport(data []byte, filename string, jobID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return "", fmt.Errorf("supabase storage is not configured")
	}

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	ext := filepath.Ext(filename)
	objectPath := fmt.Sprintf("%s%s", jobID, ext)

	contentType := "text/csv"
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := storageClient.UploadFile(exportBucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", err
	}

	publicURL := storageClient.GetPublicUrl(exportBucket, objectPath)
	return publicURL.SignedURL, nil
}
