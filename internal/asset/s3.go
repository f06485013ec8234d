package asset

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/samber/do"
)

const keyPrefix = "textures/"

// s3API is the slice of the S3 client the publisher needs; narrowed for
// tests.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Publisher struct {
	client      s3API
	invalidator Invalidator
	bucket      string
}

func NewS3Publisher(i *do.Injector) (Publisher, error) {
	bucket := do.MustInvokeNamed[string](i, "bucket")
	if bucket == "" {
		return &NoopPublisher{}, nil
	}
	return &S3Publisher{
		client:      do.MustInvoke[*s3.Client](i),
		invalidator: do.MustInvoke[Invalidator](i),
		bucket:      bucket,
	}, nil
}

func (p *S3Publisher) Publish(ctx context.Context, params PublishParams) error {
	key := keyPrefix + params.Name + ".png"
	log := log.FromContextOrDiscard(ctx).WithGroup("publish").With("bucket", p.bucket, "key", key)
	log.Info("uploading to s3")

	existed := true
	if _, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}); err != nil {
		var nf *s3types.NotFound
		if !errors.As(err, &nf) {
			return err
		}
		existed = false
	}

	if _, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		ContentType:  aws.String("image/png"),
		Body:         bytes.NewReader(params.Data),
		Metadata:     params.Metadata,
		StorageClass: s3types.StorageClassIntelligentTiering,
	}); err != nil {
		return err
	}

	// A fresh key has nothing cached at the edge.
	if !existed {
		return nil
	}
	return p.invalidator.Invalidate(ctx, []string{"/" + key})
}

type NoopPublisher struct{}

func (*NoopPublisher) Publish(ctx context.Context, params PublishParams) error {
	log.FromContextOrDiscard(ctx).Debug("no bucket configured, skipping publish", "name", params.Name)
	return nil
}

type CloudFrontInvalidator struct {
	client       *cloudfront.Client
	distribution string
}

func NewCloudFrontInvalidator(i *do.Injector) (Invalidator, error) {
	distribution := do.MustInvokeNamed[string](i, "distribution")
	if distribution == "" {
		return &NoopInvalidator{}, nil
	}
	return &CloudFrontInvalidator{
		client:       do.MustInvoke[*cloudfront.Client](i),
		distribution: distribution,
	}, nil
}

func (i *CloudFrontInvalidator) Invalidate(ctx context.Context, paths []string) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("invalidate").With("paths", paths, "distribution", i.distribution)
	log.Info("invalidating paths in cloudfront")

	_, err := i.client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(i.distribution),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(time.Now().UTC().Format("20060102150405")),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	return err
}

type NoopInvalidator struct{}

func (*NoopInvalidator) Invalidate(context.Context, []string) error { return nil }
