package gatewaytest

import (
	"context"
	"sync"

	"vo-directory/internal/gateway"
)

type StoredObject struct {
	Bucket      gateway.Bucket
	Key         string
	ContentType string
	Size        int
}

// Files is an in-memory object store. Objects are addressed "bucket/key".
type Files struct {
	mu sync.Mutex

	Objects map[string]StoredObject
	Uploads []StoredObject
	Deletes []string

	// FailUpload / FailDelete are returned by every call when set.
	FailUpload error
	FailDelete error
	// FailUploadAfter lets that many uploads succeed before FailUpload kicks in.
	FailUploadAfter int
}

var _ gateway.FileStorage = (*Files)(nil)

func NewFiles() *Files {
	return &Files{Objects: map[string]StoredObject{}}
}

func (f *Files) Upload(ctx context.Context, bucket gateway.Bucket, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpload != nil && len(f.Uploads) >= f.FailUploadAfter {
		return "", f.FailUpload
	}
	obj := StoredObject{Bucket: bucket, Key: key, ContentType: contentType, Size: len(data)}
	f.Uploads = append(f.Uploads, obj)
	f.Objects[string(bucket)+"/"+key] = obj
	return "https://files.test/" + string(bucket) + "/" + key, nil
}

func (f *Files) Delete(ctx context.Context, bucket gateway.Bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deletes = append(f.Deletes, string(bucket)+"/"+key)
	if f.FailDelete != nil {
		return f.FailDelete
	}
	delete(f.Objects, string(bucket)+"/"+key)
	return nil
}

func (f *Files) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}

type Notification struct {
	ArtistName string
	ArtistID   string
}

type Notifier struct {
	mu   sync.Mutex
	Sent []Notification
	Fail error
}

var _ gateway.Notifier = (*Notifier)(nil)

func (n *Notifier) NotifyArtistSubmitted(ctx context.Context, artistName, artistID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail != nil {
		return n.Fail
	}
	n.Sent = append(n.Sent, Notification{ArtistName: artistName, ArtistID: artistID})
	return nil
}
