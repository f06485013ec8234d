// Package catalog publishes an Atom feed of textures shared to the team
// bucket.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var ErrNoBucket = errors.New("no bucket configured")

const feedKey = "feed.xml"

type s3API interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Generator struct {
	client s3API
	bucket string
}

func NewGenerator(i *do.Injector) (*Generator, error) {
	return &Generator{
		client: do.MustInvoke[*s3.Client](i),
		bucket: do.MustInvokeNamed[string](i, "bucket"),
	}, nil
}

// Generate lists published textures and renders them as an Atom feed,
// newest first.
func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	if g.bucket == "" {
		return nil, ErrNoBucket
	}

	log := log.FromContextOrDiscard(ctx).WithGroup("catalog").With("bucket", g.bucket)
	log.Info("generating texture feed")

	feed := &feeds.Feed{
		Title:       "TexForge",
		Description: "Generated texture assets",
		Link:        &feeds.Link{Href: fmt.Sprintf("https://%s.s3.amazonaws.com/", g.bucket)},
		Updated:     time.Now(),
	}

	pager := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: &g.bucket,
		Prefix: aws.String("textures/"),
	})

	items := make(chan *feeds.Item)
	done := make(chan struct{})
	closeItems := sync.OnceFunc(func() { close(items) })
	defer closeItems()

	go func(items <-chan *feeds.Item) {
		for i := range items {
			feed.Add(i)
		}
		close(done)
	}(items)

	group, gctx := errgroup.WithContext(ctx)
	var pageErr error
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			// Earlier pages may still have HeadObject goroutines holding
			// the items channel; they must all finish before it closes.
			pageErr = err
			break
		}

		objs := lo.Filter(page.Contents, func(o s3types.Object, _ int) bool {
			return strings.HasSuffix(aws.ToString(o.Key), ".png")
		})

		for _, obj := range objs {
			obj := obj
			group.Go(func() error {
				out, err := g.client.HeadObject(gctx, &s3.HeadObjectInput{
					Bucket: &g.bucket,
					Key:    obj.Key,
				})
				if err != nil {
					return err
				}

				meta := out.Metadata
				items <- &feeds.Item{
					Title:       lo.Ternary(meta["prompt"] != "", meta["prompt"], aws.ToString(obj.Key)),
					Description: meta["model"],
					Link:        &feeds.Link{Href: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", g.bucket, aws.ToString(obj.Key))},
					Updated:     aws.ToTime(out.LastModified),
				}
				return nil
			})
		}
	}

	headErr := group.Wait()
	closeItems()
	<-done
	if pageErr != nil {
		return nil, pageErr
	}
	if headErr != nil {
		return nil, headErr
	}

	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.After(b.Updated)
	})
	atom, err := feed.ToAtom()
	return []byte(atom), err
}

// Publish regenerates the feed and uploads it next to the textures.
func (g *Generator) Publish(ctx context.Context) error {
	data, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &g.bucket,
		Key:         aws.String(feedKey),
		ContentType: aws.String("application/atom+xml"),
		Body:        bytes.NewReader(data),
	})
	return err
}
