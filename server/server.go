package server

import (
	"sync"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/config"
	"github.com/domears/negotiator2/internal/auth"
	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/misc"
)

type Server struct {
	Cfg  *config.Config
	db   *bolt.DB
	auth *auth.Auth
	r    *gin.Engine

	Campaigns *common.Campaigns
	Creators  *common.Creators

	Fmt *misc.Formatters

	// Bulk-select state per campaign. Ephemeral, never persisted.
	selMux     sync.Mutex
	selections map[string]*plan.Selection
}

func (srv *Server) withSelection(campaignId string, fn func(*plan.Selection)) {
	srv.selMux.Lock()
	s, ok := srv.selections[campaignId]
	if !ok {
		s = &plan.Selection{}
		srv.selections[campaignId] = s
	}
	fn(s)
	srv.selMux.Unlock()
}

func New(cfg *config.Config, r *gin.Engine) (*Server, error) {
	db := misc.OpenDB(cfg.DBPath, cfg.DBName)
	if err := misc.CreateBuckets(db, cfg.Bucket.All); err != nil {
		return nil, err
	}
	if err := common.SeedCreators(db, cfg); err != nil {
		return nil, err
	}

	srv := &Server{
		Cfg:        cfg,
		db:         db,
		r:          r,
		auth:       auth.New(db, cfg),
		Campaigns:  common.NewCampaigns(),
		Creators:   common.NewCreators(),
		Fmt:        misc.NewFormatters("en-US", "USD"),
		selections: make(map[string]*plan.Selection),
	}
	srv.Campaigns.Set(db, cfg)
	srv.Creators.Set(db, cfg)

	if cfg.Sandbox && len(srv.Campaigns.GetAll()) == 0 {
		if err := seedSampleCampaign(srv); err != nil {
			return nil, err
		}
	}

	go srv.auth.PurgeInvalidTokens()

	srv.initializeRoutes(r)
	return srv, nil
}

func (srv *Server) initializeRoutes(r *gin.Engine) {
	r.POST("/signUp", srv.auth.SignUpHandler)
	r.POST("/signIn", srv.auth.SignInHandler)
	r.GET("/signOut", srv.auth.SignOutHandler)

	verified := r.Group("", srv.auth.VerifyUser())

	// Campaigns
	verified.POST("/campaign", postCampaign(srv))
	verified.PUT("/campaign/:id", putCampaign(srv))
	verified.GET("/campaign/:id", getCampaign(srv))
	verified.GET("/campaigns", getCampaigns(srv))
	verified.DELETE("/campaign/:id", delCampaign(srv))
	verified.GET("/campaign/:id/metrics", getCampaignMetrics(srv))
	verified.GET("/campaign/:id/export", getCampaignCsv(srv))

	// Deliverable tree
	verified.POST("/campaign/:id/deliverable", postDeliverable(srv))
	verified.POST("/campaign/:id/deliverable/:rowId/child", postChildDeliverable(srv))
	verified.PUT("/campaign/:id/deliverable/:rowId", putDeliverable(srv))
	verified.POST("/campaign/:id/deliverable/:rowId/toggle", toggleDeliverable(srv))
	verified.POST("/campaign/:id/deliverable/:rowId/materialize", materializeDeliverable(srv))
	verified.DELETE("/campaign/:id/deliverable/:rowId", delDeliverable(srv))
	verified.POST("/campaign/:id/bulkEdit", postBulkEdit(srv))
	verified.GET("/campaign/:id/selection", getSelection(srv))
	verified.POST("/campaign/:id/selection/:rowId", toggleSelection(srv))
	verified.DELETE("/campaign/:id/selection", clearSelection(srv))
	verified.GET("/campaign/:id/deliverable/:rowId/warnings", getDeliverableWarnings(srv))

	// Catalogs
	verified.GET("/creators", getCreators(srv))
	verified.GET("/cohortTiers", getCohortTiers(srv))
	verified.GET("/platformDeliverables", getPlatformDeliverables(srv))
	verified.GET("/kpis", getKpis(srv))

	// Parsing and formatting helpers for thin clients
	verified.POST("/parseNumber", postParseNumber(srv))
	verified.POST("/formatNumber", postFormatNumber(srv))
}

func (srv *Server) Run() error {
	return srv.r.Run(srv.Cfg.Host + ":" + srv.Cfg.Port)
}

func (srv *Server) Close() error {
	return srv.db.Close()
}
