package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

var (
	R2Client     *s3.Client
	R2BucketName string
	R2Endpoint   string
)

// InitR2 initializes the R2 client used for database backups.
func InitR2(accessKey, secretKey, accountID, bucketName, region string) {
	R2BucketName = bucketName
	R2Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	R2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(R2Endpoint)
		o.UsePathStyle = true
	})

	log.Debug().Str("bucket", bucketName).Msg("Initialized R2 client")
}

// UploadBackup stores body under key in the backup bucket.
func UploadBackup(ctx context.Context, key string, body io.Reader, size int64) error {
	if R2Client == nil {
		return errors.New("r2 client not initialized")
	}
	_, err := R2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(R2BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// VerifyObjectExists checks if a given object key exists in the R2 bucket.
func VerifyObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := R2Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
