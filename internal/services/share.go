package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/campusbeast/beastweek/internal/logger"
	"github.com/campusbeast/beastweek/internal/repository"
)

// ShareService generates scannable share codes for clips. Students pass
// their phone around during the finale; the QR points at the public clip
// page so the next person lands on the right one.
type ShareService struct {
	log     logger.Logger
	repo    repository.ClipRepository
	baseURL string
}

// NewShareService creates a new ShareService. baseURL is the public address
// the QR codes point at.
func NewShareService(log logger.Logger, repo repository.ClipRepository, baseURL string) *ShareService {
	return &ShareService{log: log, repo: repo, baseURL: baseURL}
}

// ClipShareQR returns a PNG QR code linking to the clip's share page
func (s *ShareService) ClipShareQR(ctx context.Context, clipID string) ([]byte, error) {
	clip, err := s.repo.GetClip(ctx, clipID)
	if err == repository.ErrNotFound {
		return nil, ErrClipNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.baseURL == "" {
		return nil, fmt.Errorf("share base url not configured")
	}

	shareURL := fmt.Sprintf("%s/clips/%s", strings.TrimSuffix(s.baseURL, "/"), clip.ID)
	return qrcode.Encode(shareURL, qrcode.Medium, 256)
}
