package lib

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"eventplanning/src/config"
	"eventplanning/src/lib/aws"
)

// SaveSlip stores an uploaded payment slip and returns the path recorded on
// the payment row. When S3_SLIPS_BUCKET is set the slip goes to S3 and the
// returned path is the object key prefixed with "s3://"; otherwise the file
// lands under the local upload directory.
func SaveSlip(name string, file io.Reader) (string, error) {
	if bucket := os.Getenv("S3_SLIPS_BUCKET"); bucket != "" {
		if err := aws.S3UploadSlip(name, file); err != nil {
			return "", err
		}
		return fmt.Sprintf("s3://%s/%s", bucket, name), nil
	}
	dir := config.SLIP_UPLOAD_DIR
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Could not create upload directory %s: %s\n", dir, err.Error())
		return "", err
	}
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(dst), nil
}

// SlipURL resolves a stored slip path to something a client can fetch.
// Local paths are served as-is; S3 keys get a presigned URL.
func SlipURL(slipPath string) (string, error) {
	bucket := os.Getenv("S3_SLIPS_BUCKET")
	if bucket == "" {
		return slipPath, nil
	}
	prefix := fmt.Sprintf("s3://%s/", bucket)
	if len(slipPath) <= len(prefix) || slipPath[:len(prefix)] != prefix {
		return slipPath, nil
	}
	url, err := aws.S3PresignSlip(slipPath[len(prefix):])
	if err != nil {
		return "", err
	}
	return *url, nil
}
