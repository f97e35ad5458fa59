package aws

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

func S3UploadSlip(key string, body io.Reader) error {
	slipsBucket := os.Getenv("S3_SLIPS_BUCKET")
	client := GetS3Client()
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(slipsBucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return err
	}
	err = s3.NewObjectExistsWaiter(client).Wait(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(slipsBucket),
		Key:    aws.String(key),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", key, err.Error())
		return err
	}
	log.Printf("Added object '%s' to bucket '%s'", key, slipsBucket)
	return nil
}

// S3PresignSlip returns a short-lived download URL for a stored slip.
func S3PresignSlip(key string) (*string, error) {
	slipsBucket := os.Getenv("S3_SLIPS_BUCKET")
	client := GetS3Client()
	pre := s3.NewPresignClient(client)
	r, err := pre.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(slipsBucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Duration(3600 * time.Second)
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return nil, err
	}
	return &r.URL, nil
}
