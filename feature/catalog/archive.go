package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"diffing-research/core/diff"
	"diffing-research/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrSnapshotNotFound is returned when an archived snapshot does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const archivePrefix = "snapshots/"

// ArchivedSnapshot is the document stored for one reconciliation.
type ArchivedSnapshot struct {
	Board     string                       `json:"board"`
	RequestID string                       `json:"request_id"`
	CreatedAt time.Time                    `json:"created_at"`
	Snapshot  diff.Snapshot[MovieViewModel] `json:"snapshot"`
}

// ArchiveEntry describes a stored snapshot.
type ArchiveEntry struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores snapshots as JSON objects under snapshots/<name>.json.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an Archive in bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// Name returns the archive name for a board's snapshot.
func Name(board string, at time.Time, requestID string) string {
	return board + "/" + at.UTC().Format("20060102T150405.000Z") + "-" + requestID
}

func objectName(name string) string {
	return archivePrefix + strings.TrimSuffix(name, ".json") + ".json"
}

// Put stores doc under name.
func (a *Archive) Put(ctx context.Context, name string, doc ArchivedSnapshot) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", name, err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, objectName(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", name, err)
	}
	return nil
}

// Get loads the snapshot stored under name.
func (a *Archive) Get(ctx context.Context, name string) (ArchivedSnapshot, error) {
	var doc ArchivedSnapshot

	obj, err := a.client.GetObject(ctx, a.bucket, objectName(name), minio.GetObjectOptions{})
	if err != nil {
		return doc, a.wrapGetErr(name, err)
	}
	defer obj.Close()

	if err := json.NewDecoder(obj).Decode(&doc); err != nil {
		return doc, a.wrapGetErr(name, err)
	}
	return doc, nil
}

func (a *Archive) wrapGetErr(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", name, ErrSnapshotNotFound)
	}
	return fmt.Errorf("get snapshot %s: %w", name, err)
}

// List returns the snapshots stored under prefix, oldest first. An empty
// prefix lists every board.
func (a *Archive) List(ctx context.Context, prefix string) ([]ArchiveEntry, error) {
	var entries []ArchiveEntry
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix + prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list snapshots: %w", obj.Err)
		}
		if path.Ext(obj.Key) != ".json" {
			continue
		}
		entries = append(entries, ArchiveEntry{
			Name:         strings.TrimSuffix(strings.TrimPrefix(obj.Key, archivePrefix), ".json"),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	slices.SortFunc(entries, func(x, y ArchiveEntry) int {
		return strings.Compare(x.Name, y.Name)
	})
	return entries, nil
}

// Prune removes the oldest snapshots of board beyond keep and returns how many
// were removed. A keep of zero or less removes nothing.
func (a *Archive) Prune(ctx context.Context, board string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	entries, err := a.List(ctx, board+"/")
	if err != nil {
		return 0, err
	}
	if len(entries) <= keep {
		return 0, nil
	}

	stale := entries[:len(entries)-keep]
	objects := make(chan minio.ObjectInfo, len(stale))
	for _, e := range stale {
		objects <- minio.ObjectInfo{Key: objectName(e.Name)}
	}
	close(objects)

	var errs []error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return len(stale) - len(errs), errors.Join(errs...)
	}
	return len(stale), nil
}
