package s3

import (
	"construxflow/session"
	"io"
	"os"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

var (
	ProfileBucket    *oss.Bucket
	GetObjectFunc    func(string, *session.Session, ...oss.Option) (io.ReadCloser, error)
	PutObjectFunc    func(string, io.Reader, *session.Session, ...oss.Option) error
	DeleteObjectFunc func(string, *session.Session) error
)

func Bootstrap() {
	var err error
	ProfileBucket, err = BuildBucketFromEnv()
	if err != nil {
		panic(err)
	}

	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
	DeleteObjectFunc = DeleteObject
}

func BuildBucketFromEnv() (*oss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "construxflow"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

// BuildBucket endpoint looks like http://oss-cn-hangzhou.aliyuncs.com
func BuildBucket(endpoint, accesskey, secretKey, bucketName string) (*oss.Bucket, error) {
	cli, err := oss.New(endpoint, accesskey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}
	return cli.Bucket(bucketName)
}

// startSpan returns nil when the session carries no trace
func startSpan(operation, key string, s *session.Session) opentracing.Span {
	if s == nil || s.Context == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(s.Context)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return sp
}

func finishSpan(sp opentracing.Span, err error) {
	if sp != nil {
		ext.Error.Set(sp, err != nil)
		sp.Finish()
	}
}

func GetObject(key string, s *session.Session, opts ...oss.Option) (io.ReadCloser, error) {
	sp := startSpan("oss-get-object", key, s)
	r, err := ProfileBucket.GetObject(key, opts...)
	finishSpan(sp, err)
	return r, err
}

func PutObject(key string, r io.Reader, s *session.Session, opts ...oss.Option) error {
	sp := startSpan("oss-put-object", key, s)
	err := ProfileBucket.PutObject(key, r, opts...)
	finishSpan(sp, err)
	return err
}

func DeleteObject(key string, s *session.Session) error {
	sp := startSpan("oss-delete-object", key, s)
	err := ProfileBucket.DeleteObject(key)
	finishSpan(sp, err)
	return err
}

// IsNoSuchKey reports whether err means the object is absent
func IsNoSuchKey(err error) bool {
	serErr, ok := err.(oss.ServiceError)
	return ok && serErr.Code == "NoSuchKey"
}
