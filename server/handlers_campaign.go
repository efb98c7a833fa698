package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/internal/auth"
	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/internal/reporting"
	"github.com/domears/negotiator2/misc"
)

type campaignStatus struct {
	*misc.Status
	Warnings []string `json:"warnings,omitempty"`
}

func postCampaign(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmp common.Campaign
		if err := misc.BindJSON(c, &cmp); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		if err := cmp.Check(); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		// KPI issues warn, they never block the save.
		warnings := common.CheckKpiGoals(cmp.PrimaryKpis)
		warnings = append(warnings, common.CheckKpiGoals(cmp.SecondaryKpis)...)
		warnings = append(warnings, common.CheckKpiGoals(cmp.TertiaryKpis)...)

		cmp.Id = misc.PseudoUUID()
		if u := auth.GetCtxUser(c); u != nil {
			cmp.UserId = u.Id
		}
		if cmp.PlanningMode == "" {
			cmp.PlanningMode = common.PlanningGeneric
		}
		cmp.SetDuration()
		cmp.CreatedAt = time.Now().Unix()

		if err := saveCampaign(srv, &cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, &campaignStatus{Status: misc.StatusOK(cmp.Id), Warnings: warnings})
	}
}

func putCampaign(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}

		var upd common.Campaign
		if err := misc.BindJSON(c, &upd); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		upd.Id = cmp.Id
		upd.UserId = cmp.UserId
		upd.CreatedAt = cmp.CreatedAt
		upd.Deliverables = cmp.Deliverables
		if err := upd.Check(); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		upd.SetDuration()

		if err := saveCampaign(srv, &upd); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(upd.Id))
	}
}

func getCampaign(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		misc.WriteJSON(c, 200, cmp)
	}
}

// getCampaigns lists campaigns newest first, optionally filtered by
// target market (?markets=US,UK matches any overlap) and by flight
// status (?active=true keeps campaigns whose date range covers today).
func getCampaigns(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := srv.Campaigns.GetAll()
		if markets := c.Query("markets"); markets != "" {
			wanted := strings.Split(markets, ",")
			filtered := make([]*common.Campaign, 0, len(all))
			for _, cmp := range all {
				if misc.DoesIntersect(cmp.Markets, wanted) {
					filtered = append(filtered, cmp)
				}
			}
			all = filtered
		}
		if c.Query("active") == "true" {
			now := time.Now()
			filtered := make([]*common.Campaign, 0, len(all))
			for _, cmp := range all {
				if cmp.IsActive(now) {
					filtered = append(filtered, cmp)
				}
			}
			all = filtered
		}
		misc.WriteJSON(c, 200, all)
	}
}

func delCampaign(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		if err := delCampaignById(srv, cmp.Id); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func getCampaignMetrics(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		misc.WriteJSON(c, 200, plan.CalculateMetrics(srv.Cfg.Pricing, cmp.Deliverables))
	}
}

func getCampaignCsv(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		m := plan.CalculateMetrics(srv.Cfg.Pricing, cmp.Deliverables)

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+reporting.CsvFilename(cmp.Name)+`"`)
		if err := reporting.WriteCsv(c.Writer, srv.Cfg.Pricing, srv.Fmt, cmp.Deliverables, m); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
		}
	}
}
