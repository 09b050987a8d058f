// Package tracking looks up the processing status of filed dossiers.
package tracking

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned when no dossier matches the lookup code.
var ErrNotFound = errors.New("tracking: dossier not found")

// Status is the processing state of a dossier.
type Status string

const (
	StatusCompleted  Status = "COMPLETED"
	StatusProcessing Status = "PROCESSING"
	StatusPending    Status = "PENDING"
	StatusRejected   Status = "REJECTED"
)

var statusLabels = map[Status]string{
	StatusCompleted:  "Đã hoàn tất",
	StatusProcessing: "Đang xử lý",
	StatusPending:    "Chờ tiếp nhận",
	StatusRejected:   "Bị từ chối",
}

// Label returns the Vietnamese display label.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Không xác định"
}

// DocumentStatus is one dossier as shown to the citizen.
type DocumentStatus struct {
	ID            string `json:"id"`
	CitizenName   string `json:"citizen_name"`
	ProcedureName string `json:"procedure_name"`
	Status        Status `json:"status"`
	StatusLabel   string `json:"status_label"`
	SubmittedDate string `json:"submitted_date"`
	UpdatedDate   string `json:"updated_date"`
}

// Store resolves dossier codes.
type Store interface {
	Lookup(ctx context.Context, id string) (DocumentStatus, error)
}

// MemoryStore serves dossiers from process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]DocumentStatus
}

// NewMemoryStore returns a store seeded with the sample dossiers.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{docs: make(map[string]DocumentStatus)}
	for _, d := range seed {
		s.Put(d)
	}
	return s
}

var seed = []DocumentStatus{
	{ID: "HS-2023-001", CitizenName: "Nguyễn Văn Dân", ProcedureName: "Đăng ký khai sinh", Status: StatusCompleted, SubmittedDate: "2023-11-20", UpdatedDate: "2023-11-21"},
	{ID: "HS-2023-042", CitizenName: "Nguyễn Văn Dân", ProcedureName: "Chứng thực bản sao", Status: StatusProcessing, SubmittedDate: "2023-11-24", UpdatedDate: "2023-11-24"},
}

// Put adds or replaces a dossier.
func (s *MemoryStore) Put(doc DocumentStatus) {
	doc.StatusLabel = doc.Status.Label()
	s.mu.Lock()
	s.docs[normalizeID(doc.ID)] = doc
	s.mu.Unlock()
}

// Lookup matches id case-insensitively.
func (s *MemoryStore) Lookup(_ context.Context, id string) (DocumentStatus, error) {
	key := normalizeID(id)
	if key == "" {
		return DocumentStatus{}, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return DocumentStatus{}, ErrNotFound
	}
	return doc, nil
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
