package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/munchclub/muncher/internal/logger"
)

// ObjectStore keeps snapshots in an object-storage bucket under the same
// naming scheme as FileStore: the live copy under basename, backups under
// basename_<timestamp>.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	basename  string
	validator Validator
	maxTries  int
	numKeep   int
	log       *log.Logger
}

// ObjectConfig holds the connection settings for an object-storage
// backend.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewObjectStore creates an object-storage-backed store, creating the
// bucket if it is missing.
func NewObjectStore(cfg ObjectConfig, basename string, maxTries, numKeep int, validator Validator) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	s := &ObjectStore{
		client:    client,
		bucket:    cfg.Bucket,
		basename:  basename,
		validator: validator,
		maxTries:  maxTries,
		numKeep:   numKeep,
		log:       logger.Store("object"),
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		s.log.Warn("bucket does not exist, creating it", "bucket", cfg.Bucket)
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return s, nil
}

// Save writes a timestamped backup object, self-checks it through the
// validator, advances the current object and prunes old backups. A failed
// self-check is logged but does not abort the save.
func (s *ObjectStore) Save(data []byte) error {
	ctx := context.Background()

	backup := s.basename + "_" + time.Now().Format(timestampLayout)
	if err := s.putObject(ctx, backup, data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	if _, err := s.loadObject(ctx, backup); err != nil {
		s.log.Error("snapshot failed its self-check", "object", backup, "error", err)
	}

	if err := s.putObject(ctx, s.basename, data); err != nil {
		return fmt.Errorf("write current object: %w", err)
	}

	s.cleanup(ctx)
	return nil
}

// Load returns the current object if it validates, otherwise walks the
// most recent backup objects newest first.
func (s *ObjectStore) Load() ([]byte, error) {
	ctx := context.Background()

	if data, err := s.loadObject(ctx, s.basename); err == nil {
		return data, nil
	} else {
		s.log.Warn("unable to load current object, falling back to backups", "error", err)
	}

	backups, err := s.backupObjects(ctx)
	if err != nil {
		return nil, err
	}

	tries := min(s.maxTries, len(backups))
	for i := 0; i < tries; i++ {
		name := backups[len(backups)-1-i]
		data, err := s.loadObject(ctx, name)
		if err == nil {
			return data, nil
		}
		s.log.Warn("unable to load backup", "object", name, "error", err)
	}

	return nil, fmt.Errorf("tried the %d most recent backups: %w", s.maxTries, ErrNoValidBackup)
}

func (s *ObjectStore) putObject(ctx context.Context, name string, data []byte) error {
	s.log.Debug("saving", "object", name)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err == nil {
		s.log.Debug("saved", "object", name)
	}
	return err
}

func (s *ObjectStore) loadObject(ctx context.Context, name string) ([]byte, error) {
	s.log.Debug("loading", "object", name)

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	if err := s.validator(data); err != nil {
		return nil, err
	}

	s.log.Info("loaded snapshot", "object", name)
	return data, nil
}

// backupObjects lists timestamped backup objects in ascending
// (chronological) order.
func (s *ObjectStore) backupObjects(ctx context.Context) ([]string, error) {
	var names []string
	prefix := s.basename + "_"
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", s.bucket, obj.Err)
		}
		if strings.HasPrefix(obj.Key, prefix) {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *ObjectStore) cleanup(ctx context.Context) {
	backups, err := s.backupObjects(ctx)
	if err != nil {
		s.log.Error("unable to list backups for cleanup", "error", err)
		return
	}
	if len(backups) <= s.numKeep {
		return
	}
	for _, name := range backups[:len(backups)-s.numKeep] {
		s.log.Debug("deleting old backup", "object", name)
		if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			s.log.Error("unable to delete old backup", "object", name, "error", err)
		}
	}
}
