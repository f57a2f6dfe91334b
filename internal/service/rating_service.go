package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/share2teach-api/internal/dto"
	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

type ratingRepository interface {
	Rate(ctx context.Context, fileID int64, rater models.RaterIdentity, score int) (float64, error)
}

// RatingService records per-identity ratings and maintains the file mean.
type RatingService struct {
	repo     ratingRepository
	activity activityRecorder
}

// NewRatingService constructs a RatingService.
func NewRatingService(repo ratingRepository, activity activityRecorder) *RatingService {
	return &RatingService{repo: repo, activity: activity}
}

// Rate stores the rater's score for a file and returns the file's new mean rating.
func (s *RatingService) Rate(ctx context.Context, rater models.RaterIdentity, req dto.RateFileRequest) (float64, error) {
	if req.FileID == nil || req.Rating == nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "Please provide a file_id and rating")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "Rating must be between 1 and 5")
	}
	if rater.Anonymous() && rater.SessionID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "A session is required to rate anonymously")
	}

	avg, err := s.repo.Rate(ctx, *req.FileID, rater, *req.Rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return 0, internalError(err, "failed to rate file")
	}

	s.activity.Record(ctx, rater.UserID, models.ActivityRate, fmt.Sprintf("Rated file %d with %d", *req.FileID, *req.Rating))
	return avg, nil
}
