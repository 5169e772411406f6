package file_store

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/problog/problog/utils"
)

type S3FileStore struct {
	bucket                   string
	urlPrefix                string
	uploader                 *s3manager.Uploader
	svc                      *s3.S3
	customizeUploadedUrlFunc CustomizeUploadedUrlType
}

// NewS3FileStore builds a store against the configured bucket. The public
// url prefix is usually a CDN distribution in front of the bucket.
func NewS3FileStore() (*S3FileStore, error) {
	bucket := os.Getenv("S3_UPLOAD_BUCKET")
	urlPrefix := os.Getenv("S3_UPLOAD_URL_PREFIX")
	if bucket == "" || urlPrefix == "" {
		return nil, errors.New("S3_UPLOAD_BUCKET and S3_UPLOAD_URL_PREFIX must be set")
	}

	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("S3_UPLOAD_REGION")),
	})
	if err != nil {
		return nil, err
	}

	return &S3FileStore{
		bucket:                   bucket,
		urlPrefix:                strings.TrimSuffix(urlPrefix, "/") + "/",
		uploader:                 s3manager.NewUploader(sess),
		svc:                      s3.New(sess),
		customizeUploadedUrlFunc: nil,
	}, nil
}

func (s *S3FileStore) SetCustomizeUploadedUrlFunc(f CustomizeUploadedUrlType) {
	s.customizeUploadedUrlFunc = f
}

// GenerateS3Key derives the object key from the client supplied logical path
// plus a random suffix, so repeated uploads of the same file never collide.
func (s *S3FileStore) GenerateS3Key(path string, fileName string) string {
	key := strings.Trim(path, "/")
	suffix := uuid.New().String()
	ext := utils.GetUrlExtNameWithDot(fileName)
	if ext == "" {
		ext = utils.GetUrlExtNameWithDot(path)
	}
	return fmt.Sprintf("%s-%s%s", key, suffix, ext)
}

func (s *S3FileStore) Upload(body io.Reader, path string, fileName string) (string, error) {
	key := s.GenerateS3Key(path, fileName)

	_, err := s.uploader.Upload(&s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", errors.Wrap(err, "fail to upload to s3")
	}
	return s.GetUrlFromKey(key), nil
}

func (s *S3FileStore) Delete(url string) error {
	if !strings.HasPrefix(url, s.urlPrefix) {
		return errors.Errorf("url %s is not served from this store", url)
	}
	key := strings.TrimPrefix(url, s.urlPrefix)

	_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	if s.customizeUploadedUrlFunc == nil {
		return s.urlPrefix + key
	}
	return s.customizeUploadedUrlFunc(key)
}
