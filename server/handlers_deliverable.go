package server

import (
	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/internal/plan"
	"github.com/domears/negotiator2/internal/pricing"
	"github.com/domears/negotiator2/misc"
)

func postDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		cmp.Deliverables = plan.AddRow(cmp.Deliverables)
		added := cmp.Deliverables[len(cmp.Deliverables)-1]
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(added.Id))
	}
}

func postChildDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		cmp.Deliverables = plan.AddChild(srv.Cfg.Pricing, cmp.Deliverables, c.Param("rowId"))
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func putDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		var upd common.RowUpdate
		if err := misc.BindJSON(c, &upd); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		cmp.Deliverables = plan.UpdateRow(srv.Cfg.Pricing, cmp.Deliverables, c.Param("rowId"), &upd)
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func toggleDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		cmp.Deliverables = plan.ToggleExpanded(srv.Cfg.Pricing, cmp.Deliverables, c.Param("rowId"))
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func materializeDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		cmp.Deliverables = plan.Materialize(srv.Cfg.Pricing, cmp.Deliverables, c.Param("rowId"), srv.Creators.Bookable())
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func delDeliverable(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		rowId := c.Param("rowId")
		cmp.Deliverables = plan.DeleteRow(cmp.Deliverables, rowId)
		// A deleted row can't stay bulk-selected.
		srv.withSelection(cmp.Id, func(s *plan.Selection) { s.Remove(rowId) })
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func postBulkEdit(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		var req struct {
			Ids     []string         `json:"ids"`
			Updates *common.BulkEdit `json:"updates"`
		}
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		// An explicit id list wins; otherwise the stored selection is used.
		if len(req.Ids) == 0 {
			srv.withSelection(cmp.Id, func(s *plan.Selection) { req.Ids = s.List() })
		}
		if len(req.Ids) == 0 || req.Updates == nil {
			c.JSON(400, misc.StatusErr("nothing to edit"))
			return
		}
		cmp.Deliverables = pricing.ApplyBulkEdit(srv.Cfg.Pricing, cmp.Deliverables, req.Ids, req.Updates)
		if err := saveCampaign(srv, cmp); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func getSelection(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		var ids []string
		srv.withSelection(cmp.Id, func(s *plan.Selection) { ids = s.List() })
		misc.WriteJSON(c, 200, gin.H{"ids": ids})
	}
}

func toggleSelection(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		rowId := c.Param("rowId")
		if common.FindDeliverable(cmp.Deliverables, rowId) == nil {
			c.JSON(404, misc.StatusErr("deliverable not found"))
			return
		}
		srv.withSelection(cmp.Id, func(s *plan.Selection) { s.Toggle(rowId) })
		c.JSON(200, misc.StatusOK(rowId))
	}
}

func clearSelection(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		srv.withSelection(cmp.Id, func(s *plan.Selection) { s.Clear() })
		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

type rowWarnings struct {
	Warnings      []string `json:"warnings"`
	NeedsApproval bool     `json:"needsApproval"`
	RightsSummary string   `json:"rightsSummary"`
}

func getDeliverableWarnings(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := campaignFromCtx(srv, c)
		if cmp == nil {
			return
		}
		row := common.FindDeliverable(cmp.Deliverables, c.Param("rowId"))
		if row == nil {
			c.JSON(404, misc.StatusErr("deliverable not found"))
			return
		}
		misc.WriteJSON(c, 200, &rowWarnings{
			Warnings:      pricing.Validate(srv.Cfg.Pricing, row),
			NeedsApproval: pricing.NeedsApproval(srv.Cfg.Pricing, row),
			RightsSummary: misc.FormatRightsSummary(row.Rights.Usage, row.Rights.Duration, row.Rights.Territory, row.Rights.Exclusivity),
		})
	}
}
