package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/stevemurr/sustainability-tracker/action"
)

// S3Store keeps the collection as a single JSON array object in an S3
// bucket. Same read-modify-write contract as the file-backed store;
// S3 object puts are atomic, so readers never observe a partial
// write. A missing or corrupt object reads as an empty collection.
type S3Store struct {
	mu     sync.Mutex
	bucket string
	key    string
	client *s3.Client
	lastID int
}

func NewS3Store(bucket, key string, cfg aws.Config) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket name")
	}
	if key == "" {
		key = "actions.json"
	}
	return &S3Store{
		bucket: bucket,
		key:    key,
		client: s3.NewFromConfig(cfg),
	}, nil
}

func (s *S3Store) load() ([]action.Action, error) {
	obj, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, err
	}
	var records []action.Action
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

func (s *S3Store) write(records []action.Action) error {
	if records == nil {
		records = []action.Action{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (s *S3Store) ListAll() ([]action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *S3Store) Get(id int) (*action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *S3Store) Save(a *action.Action) error {
	if err := validate(a); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	if a.ID == 0 {
		next := maxID(records)
		if next < s.lastID {
			next = s.lastID
		}
		s.lastID = next + 1
		a.ID = s.lastID
		records = append(records, *a)
		return s.write(records)
	}
	for i, r := range records {
		if r.ID == a.ID {
			records[i] = *a
			return s.write(records)
		}
	}
	return ErrNotFound
}

func (s *S3Store) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return false, err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	return true, s.write(kept)
}
