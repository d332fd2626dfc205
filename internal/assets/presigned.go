package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/config"
)

const (
	defaultURLTTL = 15 * time.Minute
	// slightly less than the URL lifetime
	defaultCacheTTL = 12 * time.Minute
)

// Presigner signs read URLs for bucket objects
type Presigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3Presigner presigns GetObject requests against an S3 compatible bucket
type S3Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
}

// NewS3Presigner creates a presigner for the bucket in cfg. An R2 account id
// selects the Cloudflare endpoint.
func NewS3Presigner(ctx context.Context, cfg config.AssetsConfig) (*S3Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if endpoint := cfg.EndpointURL(); endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.EndpointURL() != ""
	})

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = defaultURLTTL
	}

	return &S3Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		ttl:    ttl,
	}, nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return req.URL, nil
}

// PresignedResolver caches presigned URLs until shortly before they expire
type PresignedResolver struct {
	cache  *cache.LoadableCache[string]
	prefix string
}

// NewPresignedResolver wraps presigner with a loadable ristretto cache
func NewPresignedResolver(presigner Presigner, prefix string, cacheTTL time.Duration) (*PresignedResolver, error) {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	load := func(ctx context.Context, key any) (string, []store.Option, error) {
		objectKey, ok := key.(string)
		if !ok {
			return "", nil, fmt.Errorf("invalid key type provided to URL cache: expected string, got %T", key)
		}

		log.Debug().Str("key", objectKey).Msg("Presigning asset URL")
		u, err := presigner.PresignGet(ctx, objectKey)
		return u, []store.Option{store.WithExpiration(cacheTTL), store.WithCost(int64(len(u)))}, err
	}

	return &PresignedResolver{
		cache:  cache.NewLoadable[string](load, cache.New[string](ristrettoStore)),
		prefix: prefix,
	}, nil
}

func (r *PresignedResolver) URL(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	return r.cache.Get(ctx, r.prefix+filename)
}

// Close stops the cache's background setter
func (r *PresignedResolver) Close() {
	r.cache.Close()
}
