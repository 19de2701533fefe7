package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	translatetypes "github.com/aws/aws-sdk-go-v2/service/translate/types"
	"github.com/aws/smithy-go"
)

// APIError builds a service error with the given code and message.
func APIError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

// StepFunctions is an in-memory orchestration service.
type StepFunctions struct {
	mu         sync.Mutex
	Started    []sfn.StartExecutionInput
	Executions map[string]*sfn.DescribeExecutionOutput
	StartErr   error
	next       int
}

// NewStepFunctions returns an empty fake.
func NewStepFunctions() *StepFunctions {
	return &StepFunctions{Executions: map[string]*sfn.DescribeExecutionOutput{}}
}

func (f *StepFunctions) StartExecution(_ context.Context, in *sfn.StartExecutionInput, _ ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartErr != nil {
		return nil, f.StartErr
	}
	f.Started = append(f.Started, *in)
	f.next++
	arn := strings.Replace(aws.ToString(in.StateMachineArn), ":stateMachine:", ":execution:", 1) + fmt.Sprintf(":exec-%d", f.next)
	started := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	f.Executions[arn] = &sfn.DescribeExecutionOutput{
		ExecutionArn:    aws.String(arn),
		StateMachineArn: in.StateMachineArn,
		Name:            aws.String(fmt.Sprintf("exec-%d", f.next)),
		Status:          sfntypes.ExecutionStatusRunning,
		StartDate:       aws.Time(started),
		Input:           in.Input,
	}
	return &sfn.StartExecutionOutput{ExecutionArn: aws.String(arn), StartDate: aws.Time(started)}, nil
}

func (f *StepFunctions) DescribeExecution(_ context.Context, in *sfn.DescribeExecutionInput, _ ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out, ok := f.Executions[aws.ToString(in.ExecutionArn)]
	if !ok {
		return nil, APIError("ExecutionDoesNotExist", "Execution Does Not Exist: '"+aws.ToString(in.ExecutionArn)+"'")
	}
	return out, nil
}

// Translate is an in-memory language catalog.
type Translate struct {
	Codes    []string
	PageSize int
	Err      error
	Calls    []translate.ListLanguagesInput
}

func (f *Translate) ListLanguages(_ context.Context, in *translate.ListLanguagesInput, _ ...func(*translate.Options)) (*translate.ListLanguagesOutput, error) {
	f.Calls = append(f.Calls, *in)
	if f.Err != nil {
		return nil, f.Err
	}
	start := 0
	if in.NextToken != nil {
		start, _ = strconv.Atoi(aws.ToString(in.NextToken))
	}
	size := len(f.Codes)
	if f.PageSize > 0 {
		size = f.PageSize
	}
	end := min(start+size, len(f.Codes))
	out := &translate.ListLanguagesOutput{}
	for _, code := range f.Codes[start:end] {
		out.Languages = append(out.Languages, translatetypes.Language{
			LanguageCode: aws.String(code),
			LanguageName: aws.String(strings.ToUpper(code)),
		})
	}
	if end < len(f.Codes) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

// S3 is an in-memory object store that pages listings.
type S3 struct {
	mu       sync.Mutex
	Objects  map[string]map[string][]byte
	PageSize int
	Uploads  []string
	HeadErr  error
	// Tagged holds the last tag set written per "bucket/key".
	Tagged map[string][]s3types.Tag
	// TagErr fails PutObjectTagging for keys it returns non-nil for.
	TagErr func(key string) error
}

// NewS3 returns an empty store.
func NewS3() *S3 {
	return &S3{Objects: map[string]map[string][]byte{}}
}

// Put stores body under bucket/key.
func (f *S3) Put(bucket, key string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Objects[bucket] == nil {
		f.Objects[bucket] = map[string][]byte{}
	}
	f.Objects[bucket][key] = body
}

// Get returns the object body, if present.
func (f *S3) Get(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.Objects[bucket][key]
	return body, ok
}

func (f *S3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket := aws.ToString(in.Bucket)
	objects, ok := f.Objects[bucket]
	if !ok {
		return nil, APIError("NoSuchBucket", "The specified bucket does not exist")
	}
	prefix := aws.ToString(in.Prefix)
	keys := make([]string, 0, len(objects))
	for key := range objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if token := aws.ToString(in.ContinuationToken); token != "" {
		start = sort.SearchStrings(keys, token)
	}
	size := len(keys)
	if f.PageSize > 0 {
		size = f.PageSize
	}
	end := min(start+size, len(keys))

	out := &s3.ListObjectsV2Output{KeyCount: aws.Int32(int32(end - start))}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, s3types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(objects[key]))),
			ETag:         aws.String(etag(objects[key])),
			StorageClass: s3types.ObjectStorageClassStandard,
			LastModified: aws.Time(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	} else {
		out.IsTruncated = aws.Bool(false)
	}
	return out, nil
}

func (f *S3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.HeadErr != nil {
		return nil, f.HeadErr
	}
	body, ok := f.Get(aws.ToString(in.Bucket), aws.ToString(in.Key))
	if !ok {
		return nil, APIError("NotFound", "Not Found")
	}
	return &s3.HeadObjectOutput{ETag: aws.String(etag(body)), ContentLength: aws.Int64(int64(len(body)))}, nil
}

// Upload satisfies the upload manager signature.
func (f *S3) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	var buf bytes.Buffer
	if in.Body != nil {
		if _, err := io.Copy(&buf, in.Body); err != nil {
			return nil, err
		}
	}
	bucket, key := aws.ToString(in.Bucket), aws.ToString(in.Key)
	f.Put(bucket, key, buf.Bytes())
	f.mu.Lock()
	f.Uploads = append(f.Uploads, bucket+"/"+key)
	f.mu.Unlock()
	return &manager.UploadOutput{Key: in.Key, ETag: aws.String(etag(buf.Bytes()))}, nil
}

func (f *S3) PutObjectTagging(_ context.Context, in *s3.PutObjectTaggingInput, _ ...func(*s3.Options)) (*s3.PutObjectTaggingOutput, error) {
	bucket, key := aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.TagErr != nil {
		if err := f.TagErr(key); err != nil {
			return nil, err
		}
	}
	if _, ok := f.Get(bucket, key); !ok {
		return nil, APIError("NoSuchKey", "The specified key does not exist.")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Tagged == nil {
		f.Tagged = map[string][]s3types.Tag{}
	}
	var set []s3types.Tag
	if in.Tagging != nil {
		set = append(set, in.Tagging.TagSet...)
	}
	f.Tagged[bucket+"/"+key] = set
	return &s3.PutObjectTaggingOutput{}, nil
}

func etag(body []byte) string {
	var sum uint32 = 2166136261
	for _, b := range body {
		sum ^= uint32(b)
		sum *= 16777619
	}
	return fmt.Sprintf("\"%08x\"", sum)
}

// S3Control records CreateJob calls.
type S3Control struct {
	Jobs []s3control.CreateJobInput
	Err  error
}

func (f *S3Control) CreateJob(_ context.Context, in *s3control.CreateJobInput, _ ...func(*s3control.Options)) (*s3control.CreateJobOutput, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.Jobs = append(f.Jobs, *in)
	return &s3control.CreateJobOutput{JobId: aws.String(fmt.Sprintf("job-%04d", len(f.Jobs)))}, nil
}

// STS answers GetCallerIdentity with a fixed account.
type STS struct {
	Account string
	Calls   int
}

func (f *STS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.Calls++
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.Account)}, nil
}
