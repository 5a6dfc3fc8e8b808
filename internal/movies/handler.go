// Package movies exposes the catalog queries over HTTP. Every route
// answers 200; a lookup miss is reported inside the result record.
package movies

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.info)
	rg.GET("/cantidad_filmaciones_mes/:month", h.filmsPerMonth)
	rg.GET("/cantidad_filmaciones_dia/:day", h.filmsPerDay)
	rg.GET("/score_titulo/:movie", h.titleScore)
	rg.GET("/votos_titulo/:movie", h.titleVotes)
	rg.GET("/get_actor/:actor", h.actor)
	rg.GET("/get_director/:director", h.director)
	rg.GET("/recomendacion/:title", h.recommendation)
}

func (h *Handler) info(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Info())
}

func (h *Handler) filmsPerMonth(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.FilmsPerMonth(c.Param("month")))
}

func (h *Handler) filmsPerDay(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.FilmsPerDay(c.Param("day")))
}

func (h *Handler) titleScore(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.TitleScore(c.Param("movie")))
}

func (h *Handler) titleVotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.TitleVotes(c.Param("movie")))
}

func (h *Handler) actor(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.ActorStats(c.Param("actor")))
}

func (h *Handler) director(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.DirectorStats(c.Param("director")))
}

func (h *Handler) recommendation(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Recommendation(c.Param("title")))
}
