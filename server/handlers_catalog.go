package server

import (
	"github.com/gin-gonic/gin"

	"github.com/domears/negotiator2/internal/common"
	"github.com/domears/negotiator2/misc"
)

// getCreators lists bookable creators; ?all=true includes archetypes,
// keyed by id.
func getCreators(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("all") == "true" {
			misc.WriteJSON(c, 200, srv.Creators.GetStore())
			return
		}
		misc.WriteJSON(c, 200, srv.Creators.Bookable())
	}
}

func getCohortTiers(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		misc.WriteJSON(c, 200, common.CohortTiers)
	}
}

func getPlatformDeliverables(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		misc.WriteJSON(c, 200, common.PlatformDeliverables)
	}
}

func getKpis(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		misc.WriteJSON(c, 200, common.KpiConfigs)
	}
}

func postParseNumber(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Input string `json:"input"`
			Kind  string `json:"kind"`
		}
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		if req.Kind == "" {
			req.Kind = misc.KindCount
		}
		misc.WriteJSON(c, 200, misc.ParseNumber(req.Input, req.Kind))
	}
}

func postFormatNumber(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Value float64 `json:"value"`
			Style string  `json:"style"` // compact or full
			Kind  string  `json:"kind"`
		}
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}
		misc.WriteJSON(c, 200, gin.H{
			"formatted": srv.Fmt.FormatNumber(req.Value, req.Style, req.Kind),
			// What an input field shows once committed; re-parses to the
			// same value.
			"input": srv.Fmt.FormatForInput(req.Value, req.Kind),
		})
	}
}
