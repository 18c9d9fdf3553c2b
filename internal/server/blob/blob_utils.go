package blob

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/figurevault/figurevault/internal/utils"
)

var (
	ErrInvalidKey    = errors.New("invalid key")
	ErrInvalidBucket = errors.New("invalid bucket")
)

// Match: starts with one or more / OR contains \ OR contains ..
var regexForbiddenPatterns = regexp.MustCompile(`^/+|\\+|\.\.`)

// S3 bucket naming: 3-63 chars, lowercase letters, digits, dots and hyphens
var regexBucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// ValidateKey checks a key for S3 compatibility
func ValidateKey(key string) bool {
	if len(key) == 0 || len(key) > 1024 {
		return false
	} else if key == "." || key == ".." {
		return false
	}

	if regexForbiddenPatterns.MatchString(key) {
		return false
	}

	return utf8.ValidString(key)
}

func ValidateBucket(bucket string) bool {
	return regexBucketName.MatchString(bucket) && !strings.Contains(bucket, "..")
}

func validate(bucket, key string) error {
	if !ValidateBucket(bucket) {
		return ErrInvalidBucket
	}
	if !ValidateKey(key) {
		return ErrInvalidKey
	}
	return nil
}

// tokenFromPresignedURL extracts the signature that authorizes a presigned request.
func tokenFromPresignedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("X-Amz-Signature")
}

func objectURL(publicURL, endpoint, region, bucket, key string) string {
	switch {
	case publicURL != "":
		return utils.JoinURL(publicURL, bucket, key)
	case endpoint != "":
		// path-style, matches how custom endpoints are addressed
		return utils.JoinURL(endpoint, bucket, key)
	default:
		return utils.JoinURL("https://"+bucket+".s3."+region+".amazonaws.com", key)
	}
}
