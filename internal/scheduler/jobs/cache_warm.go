package jobs

import (
	"context"

	"github.com/caixaverso/investcore/internal/recommend"
)

// CacheWarmJob refreshes the per-profile recommendation cache so the
// busiest read path rarely pays the catalog round trip.
type CacheWarmJob struct {
	recommender *recommend.Service
	schedule    string
}

// NewCacheWarmJob creates the recommendation cache warming job.
func NewCacheWarmJob(recommender *recommend.Service, schedule string) *CacheWarmJob {
	return &CacheWarmJob{
		recommender: recommender,
		schedule:    schedule,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "recommendation_cache_warm"
}

// Schedule returns the cron schedule expression
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run warms the recommendation cache for every risk profile tier.
func (j *CacheWarmJob) Run(ctx context.Context) error {
	return j.recommender.WarmCache(ctx)
}
