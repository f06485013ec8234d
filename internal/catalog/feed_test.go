package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]fakeObject
	putKey  string
	putBody string
	headErr error
}

type fakeObject struct {
	metadata map[string]string
	modified time.Time
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var contents []s3types.Object
	for key, obj := range f.objects {
		if in.Prefix != nil && !strings.HasPrefix(key, *in.Prefix) {
			continue
		}
		key := key
		contents = append(contents, s3types.Object{Key: &key, LastModified: aws.Time(obj.modified)})
	}
	return &s3.ListObjectsV2Output{Contents: contents}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		Metadata:     obj.metadata,
		LastModified: aws.Time(obj.modified),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putKey = aws.ToString(in.Key)
	body, _ := io.ReadAll(in.Body)
	f.putBody = string(body)
	return &s3.PutObjectOutput{}, nil
}

func newTestGenerator() (*Generator, *fakeS3) {
	client := &fakeS3{objects: map[string]fakeObject{
		"textures/T_dragon.png": {
			metadata: map[string]string{"prompt": "dragon", "model": "amazon.titan-image-generator-v1"},
			modified: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		"textures/T_blue_neon_logo.png": {
			metadata: map[string]string{"prompt": "blue neon logo", "model": "stability.stable-diffusion-xl-v1"},
			modified: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		"textures/readme.txt": {modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	return &Generator{client: client, bucket: "texforge-renders"}, client
}

func TestGenerate(t *testing.T) {
	g, _ := newTestGenerator()

	data, err := g.Generate(context.Background())
	require.NoError(t, err)

	atom := string(data)
	assert.Contains(t, atom, "<title>TexForge</title>")
	assert.Contains(t, atom, "dragon")
	assert.Contains(t, atom, "blue neon logo")
	assert.NotContains(t, atom, "readme.txt", "only png renders belong in the feed")
	assert.Less(t, strings.Index(atom, "blue neon logo"), strings.Index(atom, "dragon"),
		"newest render comes first")
}

func TestGenerateNoBucket(t *testing.T) {
	g := &Generator{client: &fakeS3{}, bucket: ""}
	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrNoBucket)
}

// pagedS3 serves its objects over two pages and fails the second list call,
// after the first page has already fanned out slow HeadObject lookups.
type pagedS3 struct {
	fakeS3
	pages int
}

func (f *pagedS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.pages++
	if f.pages > 1 {
		return nil, errors.New("throttled")
	}
	key := "textures/T_dragon.png"
	return &s3.ListObjectsV2Output{
		Contents:              []s3types.Object{{Key: &key, LastModified: aws.Time(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil
}

func (f *pagedS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	// Lose the race against the failing list call on purpose.
	time.Sleep(100 * time.Millisecond)
	return f.fakeS3.HeadObject(ctx, in, opts...)
}

func TestGenerateListFailureMidPagination(t *testing.T) {
	client := &pagedS3{fakeS3: fakeS3{objects: map[string]fakeObject{
		"textures/T_dragon.png": {
			metadata: map[string]string{"prompt": "dragon"},
			modified: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}}}
	g := &Generator{client: client, bucket: "texforge-renders"}

	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "throttled")
}

func TestGenerateHeadFailure(t *testing.T) {
	g, client := newTestGenerator()
	client.headErr = errors.New("access denied")

	_, err := g.Generate(context.Background())
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	g, client := newTestGenerator()

	require.NoError(t, g.Publish(context.Background()))
	assert.Equal(t, "feed.xml", client.putKey)
	assert.Contains(t, client.putBody, "<title>TexForge</title>")
}
