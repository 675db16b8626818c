package ryysapp

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
)

// ErrUploadsDisabled is returned by [Uploads.Put] when no bucket is configured.
var ErrUploadsDisabled = errors.New("ryysapp: uploads are disabled; set RYYS_UPLOAD_BUCKET")

// ObjectPutter is the part of the S3 client that [Uploads] needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploads stores files received in multipart requests in an S3 bucket.
type Uploads struct {
	client ObjectPutter
	bucket string
}

// NewUploads inits uploads into bucket. An empty bucket disables them.
func NewUploads(client ObjectPutter, bucket string) *Uploads {
	return &Uploads{client: client, bucket: bucket}
}

func provideUploads(cfg aws.Config, env Environment) *Uploads {
	return NewUploads(s3.NewFromConfig(cfg), env.uploadBucket())
}

// Enabled reports whether a bucket is configured.
func (u *Uploads) Enabled() bool { return u.bucket != "" }

// Put stores f under key and returns its s3:// URI. The content type is the sniffed type of the file, or
// application/octet-stream when it cannot be determined.
func (u *Uploads) Put(ctx context.Context, key string, f *ryys.File) (string, error) {
	if !u.Enabled() {
		return "", ErrUploadsDisabled
	}

	contentType, err := f.MIME()
	if err != nil {
		contentType = "application/octet-stream"
	}

	if _, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f.Reader(),
		ContentLength: aws.Int64(int64(f.Size())),
		ContentType:   aws.String(contentType),
	}); err != nil {
		return "", errors.Wrapf(err, "ryysapp: failed to put %q into bucket %q", key, u.bucket)
	}

	return "s3://" + u.bucket + "/" + key, nil
}
