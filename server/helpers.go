package server

import (
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/misc"
)

// saveCampaign persists the campaign and refreshes the in-memory store.
func saveCampaign(srv *Server, cmp *common.Campaign) error {
	cmp.UpdatedAt = time.Now().Unix()
	if err := srv.db.Update(func(tx *bolt.Tx) error {
		return misc.PutTxJson(tx, srv.Cfg.Bucket.Campaign, cmp.Id, cmp)
	}); err != nil {
		return err
	}
	srv.Campaigns.SetCampaign(cmp.Id, cmp)
	return nil
}

func delCampaignById(srv *Server, id string) error {
	if err := srv.db.Update(func(tx *bolt.Tx) error {
		return misc.DelBucketBytes(tx, srv.Cfg.Bucket.Campaign, id)
	}); err != nil {
		return err
	}
	srv.Campaigns.Del(id)
	srv.selMux.Lock()
	delete(srv.selections, id)
	srv.selMux.Unlock()
	return nil
}

// seedSampleCampaign drops a small worked example into an empty sandbox
// store so a fresh install has something to click on.
func seedSampleCampaign(srv *Server) error {
	rows := plan.AddRow(nil)
	rows = plan.AddChild(srv.Cfg.Pricing, rows, rows[0].Id)

	cmp := &common.Campaign{
		Id:               misc.PseudoUUID(),
		Name:             "Sample Spring Push",
		Client:           "Acme Co",
		Brand:            "Acme",
		Markets:          []string{"CA"},
		Currency:         "USD",
		PrimaryObjective: "Awareness",
		PrimaryKpis:      []common.KpiGoal{{Name: "Impressions", Target: 1000000}},
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 1, 0),
		BudgetType:       common.BudgetCampaign,
		BudgetAmount:     25000,
		PlanningMode:     common.PlanningGeneric,
		Deliverables:     rows,
		CreatedAt:        time.Now().Unix(),
	}
	cmp.SetDuration()
	return saveCampaign(srv, cmp)
}

// campaignFromCtx resolves the :id param against the store, replying 404
// and returning nil when it is missing. The caller gets its own copy:
// handlers mutate it freely and the store only sees the result once
// saveCampaign's bolt write has succeeded, so a failed save never leaves
// the store diverged from the db.
func campaignFromCtx(srv *Server, c *gin.Context) *common.Campaign {
	id := c.Param("id")
	if id == "" {
		c.JSON(400, misc.StatusErr(misc.ErrMissingId.Error()))
		return nil
	}
	cmp, ok := srv.Campaigns.Get(id)
	if !ok {
		// The store is warmed at startup; fall back to the db for
		// campaigns written by another process.
		if cmp = common.GetCampaign(id, srv.db, srv.Cfg); cmp == nil {
			c.JSON(404, misc.StatusErr("campaign not found"))
			return nil
		}
		srv.Campaigns.SetCampaign(cmp.Id, cmp)
	}
	cp := *cmp
	return &cp
}
