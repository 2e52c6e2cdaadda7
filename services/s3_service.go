package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultAvatarURLTTL bounds presigned avatar URL lifetime when
// AVATAR_URL_TTL_SECONDS is unset
const DefaultAvatarURLTTL = 5 * time.Minute

var s3Client *s3.Client

func init() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		panic(err)
	}
	s3Client = s3.NewFromConfig(cfg)
}

func avatarURLTTL() time.Duration {
	if seconds, err := strconv.Atoi(os.Getenv("AVATAR_URL_TTL_SECONDS")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return DefaultAvatarURLTTL
}

// avatarObjectKey namespaces avatar objects per user. Each upload gets a
// fresh key so the previous avatar stays readable until the profile swaps
// its stored key over.
func avatarObjectKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, uuid.NewString())
}

// GenerateAvatarUploadURL presigns an upload slot for a user's avatar and
// returns the URL together with the object key the client stores on its
// profile once the upload succeeds
func GenerateAvatarUploadURL(userID, contentType string) (string, string, error) {
	key := avatarObjectKey(userID)
	params := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET_NAME")),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	presigner := s3.NewPresignClient(s3Client)
	presignedURL, err := presigner.PresignPutObject(context.TODO(), params, s3.WithPresignExpires(avatarURLTTL()))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateAvatarReadURL presigns a read of a previously uploaded avatar
func GenerateAvatarReadURL(key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(os.Getenv("S3_BUCKET_NAME")),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(s3Client)
	presignedURL, err := presigner.PresignGetObject(context.TODO(), params, s3.WithPresignExpires(avatarURLTTL()))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
