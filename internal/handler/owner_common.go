package handler

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/middleware"
	"github.com/qdo10/loopin/internal/plan"
	"github.com/qdo10/loopin/internal/repository"
)

// OwnerHandler bundles the repositories behind the authenticated dashboard
// endpoints. Every mutation path re-checks ownership; plan-gated actions
// go through the subscription gate.
type OwnerHandler struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Projects     *repository.ProjectRepo
	Milestones   *repository.MilestoneRepo
	Updates      *repository.UpdateRepo
	Deliverables *repository.DeliverableRepo
	Comments     *repository.CommentRepo
	Views        *repository.PortalViewRepo
	Gate         *plan.Gate
	RDB          *redis.Client
	Cache        config.CacheConfig
}

func NewOwnerHandler(cfg config.Config, users *repository.UserRepo, projects *repository.ProjectRepo,
	milestones *repository.MilestoneRepo, updates *repository.UpdateRepo,
	deliverables *repository.DeliverableRepo, comments *repository.CommentRepo,
	views *repository.PortalViewRepo, rdb *redis.Client) *OwnerHandler {
	if users == nil || projects == nil || milestones == nil || updates == nil ||
		deliverables == nil || comments == nil || views == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Cfg:          cfg,
		Users:        users,
		Projects:     projects,
		Milestones:   milestones,
		Updates:      updates,
		Deliverables: deliverables,
		Comments:     comments,
		Views:        views,
		Gate:         plan.NewGate(projects),
		RDB:          rdb,
		Cache:        config.LoadCacheConfig(),
	}
}

// invalidatePortal drops the cached portal payload for a project. Called
// after any mutation that changes what an anonymous portal reader may
// see, so a raised password gate or an archive takes effect immediately
// instead of after the cache TTL.
func (h *OwnerHandler) invalidatePortal(ctx context.Context, shareToken string) {
	middleware.InvalidatePortalCache(ctx, h.RDB, h.Cache.Prefix, shareToken)
}
