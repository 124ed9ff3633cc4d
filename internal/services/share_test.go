package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/campusbeast/beastweek/internal/models"
	"github.com/campusbeast/beastweek/internal/testutil"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func newShareFixture(t *testing.T, baseURL string) *ShareService {
	t.Helper()
	repo := testutil.NewTestRepository(t)

	week := &models.BeastWeek{
		ID:             "week-1",
		Number:         1,
		Title:          "Beast Week 1",
		StartDate:      monday,
		EndDate:        monday.Add(7 * 24 * time.Hour),
		MaxClipSeconds: 60,
		Active:         true,
	}
	if err := repo.CreateWeek(context.Background(), week); err != nil {
		t.Fatalf("CreateWeek failed: %v", err)
	}

	clip := &models.BeastClip{
		ID:              "clip-1",
		UserID:          "alice",
		WeekID:          "week-1",
		MediaURL:        "https://cdn.example.com/clip-1.mp4",
		DurationSeconds: 30,
		Status:          models.ClipStatusApproved,
		CreatedAt:       monday.Add(26 * time.Hour),
		ShowUsername:    true,
	}
	if err := repo.CreateClip(context.Background(), clip); err != nil {
		t.Fatalf("CreateClip failed: %v", err)
	}

	return NewShareService(testLogger(), repo, baseURL)
}

func TestClipShareQR_ReturnsPNG(t *testing.T) {
	share := newShareFixture(t, "http://10.0.0.7:8081")

	png, err := share.ClipShareQR(context.Background(), "clip-1")
	if err != nil {
		t.Fatalf("ClipShareQR failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected non-empty QR image")
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Errorf("expected PNG header, got % x", png[:4])
	}
}

func TestClipShareQR_TrailingSlashBase(t *testing.T) {
	share := newShareFixture(t, "http://10.0.0.7:8081/")

	png, err := share.ClipShareQR(context.Background(), "clip-1")
	if err != nil {
		t.Fatalf("ClipShareQR failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("expected PNG output with trailing-slash base URL")
	}
}

func TestClipShareQR_UnknownClip(t *testing.T) {
	share := newShareFixture(t, "http://10.0.0.7:8081")

	_, err := share.ClipShareQR(context.Background(), "nope")
	if err != ErrClipNotFound {
		t.Errorf("expected ErrClipNotFound, got %v", err)
	}
}

func TestClipShareQR_MissingBaseURL(t *testing.T) {
	share := newShareFixture(t, "")

	_, err := share.ClipShareQR(context.Background(), "clip-1")
	if err == nil {
		t.Error("expected error when base URL is not configured")
	}
}
